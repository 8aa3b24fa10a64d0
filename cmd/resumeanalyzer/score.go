package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"resume-analyzer-go/internal/parser"
	"resume-analyzer-go/internal/scorer"
)

// 定义评分命令的命令行参数
var (
	scoreInputFile   = flag.String("score-file", "", "要评分的PDF文件路径")
	scoreAmplitude   = flag.Float64("score-amplitude", 0, "随机扰动幅度，0表示确定性评分")
	scoreShowDetails = flag.Bool("score-details", true, "是否显示各维度的评分明细")
)

// 处理ATS评分命令
func handleScoreCommand() {
	absPath := resolvePDFPath(*scoreInputFile)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	text, _ := extractTextFromPDF(ctx, absPath)

	processor := parser.NewResumeContentProcessor()
	content := processor.Process(text)

	atsScorer := scorer.NewATSScorer(
		scorer.WithPerturbationAmplitude(*scoreAmplitude),
	)
	detail := atsScorer.ScoreDetail(content)

	fmt.Println("===== ATS评分结果 =====")
	fmt.Printf("最终得分: %.1f / 100\n", detail.Score)
	fmt.Printf("评级: %s\n", detail.Rating)
	fmt.Printf("通过筛选: %v\n", detail.PassThreshold)

	if *scoreShowDetails {
		fmt.Println("\n--- 维度明细 ---")
		for dimension, value := range detail.Breakdown {
			fmt.Printf("  %s: %s\n", dimension, value)
		}
	}
}
