package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"resume-analyzer-go/internal/agent"
	"resume-analyzer-go/internal/analyzer"
	"resume-analyzer-go/internal/config"
	"resume-analyzer-go/internal/parser"
	"resume-analyzer-go/internal/scorer"
)

// 定义完整分析命令的命令行参数
var (
	analyzeInputFile  = flag.String("analyze-file", "", "要分析的PDF文件路径")
	analyzeConfigFile = flag.String("analyze-config", "", "配置文件路径，包含Mistral API密钥")
	analyzeSaveFile   = flag.String("analyze-save", "", "保存完整报告到JSON文件")
)

// 处理完整分析命令，走与HTTP服务相同的流水线
func handleAnalyzeCommand() {
	absPath := resolvePDFPath(*analyzeInputFile)

	cfg, err := config.LoadConfig(*analyzeConfigFile)
	if err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	extractor, err := parser.NewEinoPDFTextExtractor(ctx,
		parser.WithExtractTimeout(config.GetDuration(cfg.Extractor.Timeout, 20*time.Second)),
	)
	if err != nil {
		fmt.Printf("创建PDF提取器失败: %v\n", err)
		os.Exit(1)
	}

	llm, err := agent.NewMistralChatModel(cfg.Mistral.APIKey, cfg.Mistral.Model, cfg.Mistral.APIURL,
		agent.WithTemperature(cfg.Analyzer.Temperature),
		agent.WithMaxTokens(cfg.Analyzer.MaxTokens),
	)
	if err != nil {
		fmt.Printf("初始化Mistral客户端失败: %v\n", err)
		os.Exit(1)
	}

	narrative, err := analyzer.NewLLMNarrativeAnalyzer(llm,
		analyzer.WithAnalysisTimeout(config.GetDuration(cfg.Analyzer.AnalysisTimeout, 45*time.Second)),
		analyzer.WithPromptTextLimit(cfg.Analyzer.PromptTextLimit),
	)
	if err != nil {
		fmt.Printf("初始化叙事分析器失败: %v\n", err)
		os.Exit(1)
	}

	pipeline, err := analyzer.NewPipeline(
		analyzer.NewComponents(
			analyzer.WithcompExtractor(extractor),
			analyzer.WithcompProcessor(parser.NewResumeContentProcessor()),
			analyzer.WithcompScorer(scorer.NewATSScorer(scorer.WithPerturbationAmplitude(cfg.Scoring.PerturbationAmplitude))),
			analyzer.WithcompNarrative(narrative),
		),
		&analyzer.Settings{},
		analyzer.WithsetPipelinetimeout(config.GetDuration(cfg.Analyzer.PipelineTimeout, 120*time.Second)),
	)
	if err != nil {
		fmt.Printf("初始化分析流水线失败: %v\n", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		fmt.Printf("读取PDF文件失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("开始完整分析，包含LLM叙事分析，可能需要一些时间...")
	startTime := time.Now()
	report, err := pipeline.AnalyzeBytes(ctx, data, filepath.Base(absPath))
	if err != nil {
		fmt.Printf("分析失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("分析完成! 耗时: %v\n", time.Since(startTime))

	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Printf("序列化报告失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(output))

	if *analyzeSaveFile != "" {
		if err := os.WriteFile(*analyzeSaveFile, output, 0644); err != nil {
			fmt.Printf("保存报告失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("完整报告已保存到: %s\n", *analyzeSaveFile)
	}
}
