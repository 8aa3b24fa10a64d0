package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"resume-analyzer-go/internal/parser"
)

// 定义特征提取命令的命令行参数
var (
	featuresInputFile = flag.String("features-file", "", "要分析的PDF文件路径")
	featuresSaveFile  = flag.String("features-save", "", "保存结构化结果到JSON文件")
)

// 处理技能与特征提取命令
func handleFeaturesCommand() {
	absPath := resolvePDFPath(*featuresInputFile)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	text, _ := extractTextFromPDF(ctx, absPath)

	processor := parser.NewResumeContentProcessor()
	content := processor.Process(text)

	fmt.Println("===== 技能分类 =====")
	skillsJSON, err := json.MarshalIndent(content.Skills, "", "  ")
	if err != nil {
		fmt.Printf("序列化技能结果失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(skillsJSON))

	fmt.Printf("\n===== 时间线 (%d 条) =====\n", len(content.Dates))
	for _, d := range content.Dates {
		fmt.Printf("  %s\n", d)
	}

	fmt.Printf("\n===== 量化指标 (%d 条) =====\n", len(content.Metrics))
	for _, m := range content.Metrics {
		fmt.Printf("  %s\n", m)
	}

	if *featuresSaveFile != "" {
		data, err := json.MarshalIndent(content, "", "  ")
		if err != nil {
			fmt.Printf("序列化结构化内容失败: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*featuresSaveFile, data, 0644); err != nil {
			fmt.Printf("保存结构化结果失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("结构化结果已保存到: %s\n", *featuresSaveFile)
	}
}
