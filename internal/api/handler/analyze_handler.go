package handler

import (
	"context"
	"path/filepath"
	"strings"

	"resume-analyzer-go/internal/analyzer"
	"resume-analyzer-go/internal/config"
	"resume-analyzer-go/internal/logger"
	"resume-analyzer-go/internal/types"
)

// AnalyzeHandler 简历分析处理器，负责校验请求并调用分析流水线
type AnalyzeHandler struct {
	cfg      *config.Config
	pipeline *analyzer.Pipeline
}

// NewAnalyzeHandler 创建一个新的简历分析处理器
func NewAnalyzeHandler(cfg *config.Config, pipeline *analyzer.Pipeline) *AnalyzeHandler {
	return &AnalyzeHandler{
		cfg:      cfg,
		pipeline: pipeline,
	}
}

// isPDF 依据Content-Type与扩展名判断是否为PDF上传
func isPDF(filename string, contentType string) bool {
	if contentType == "application/pdf" {
		return true
	}
	// 部分客户端用octet-stream上传，退回到扩展名判断
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// HandleAnalyze 处理简历分析请求
// 仅接受PDF，其他类型返回文件类型错误
func (h *AnalyzeHandler) HandleAnalyze(ctx context.Context, data []byte, filename string, contentType string) (*types.AnalysisReport, error) {
	if !isPDF(filename, contentType) {
		logger.Warn().
			Str("content_type", contentType).
			Msg("拒绝非PDF文件")
		return nil, analyzer.NewUnsupportedFileError("", contentType)
	}

	report, err := h.pipeline.AnalyzeBytes(ctx, data, filename)
	if err != nil {
		logger.Error().Err(err).Msg("简历分析失败")
		return nil, err
	}
	return report, nil
}
