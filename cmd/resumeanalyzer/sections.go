package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"resume-analyzer-go/internal/parser"
)

// 定义章节切分命令的命令行参数
var (
	sectionsInputFile = flag.String("sections-file", "", "要切分的PDF文件路径")
)

// 处理章节切分命令
func handleSectionsCommand() {
	absPath := resolvePDFPath(*sectionsInputFile)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	text, _ := extractTextFromPDF(ctx, absPath)

	segmenter := parser.NewSectionSegmenter()
	sections := segmenter.Segment(text)
	stats := segmenter.SectionStatistics(sections)

	fmt.Printf("===== 识别到 %d 个章节 =====\n", len(sections))
	for label, blocks := range sections {
		st := stats[label]
		fmt.Printf("\n--- %s (%d 个内容块, %d 词, %d 句) ---\n", label, len(blocks), st.WordCount, st.SentenceCount)
		for i, block := range blocks {
			display := block
			if *maxLen >= 0 && len(display) > *maxLen {
				display = display[:*maxLen] + "..."
			}
			fmt.Printf("[%d] %s\n", i+1, display)
		}
	}
}
