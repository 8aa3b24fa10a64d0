package router

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/cors"
	"go.opentelemetry.io/otel/trace"

	"resume-analyzer-go/internal/analyzer"
	"resume-analyzer-go/internal/api/handler"
	"resume-analyzer-go/internal/tracing"
)

// NewCORSMiddleware 构造CORS中间件
// origins为空时允许所有来源，带凭证请求需要显式来源列表
func NewCORSMiddleware(origins []string) app.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"*"},
		AllowCredentials: true,
		MaxAge:           10 * time.Minute,
	}
	if len(origins) > 0 {
		cfg.AllowOrigins = origins
	} else {
		cfg.AllowCredentials = false
		cfg.AllowAllOrigins = true
	}
	return cors.New(cfg)
}

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, analyzeHandler *handler.AnalyzeHandler) {
	h.POST("/analyze", func(c context.Context, ctx *app.RequestContext) {
		// 获取上传的文件
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"detail": "文件未找到"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"detail": "打开文件失败"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"detail": "读取文件失败"})
			return
		}

		contentType := fileHeader.Header.Get("Content-Type")
		report, err := analyzeHandler.HandleAnalyze(c, data, fileHeader.Filename, contentType)
		if err != nil {
			status, detail := statusForError(err)
			tracing.RecordHTTPError(trace.SpanFromContext(c), err, status)
			ctx.JSON(status, utils.H{"detail": detail})
			return
		}

		ctx.JSON(consts.StatusOK, report)
	})

	// 健康检查
	api := h.Group("/api/v1")
	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
}

// statusForError 将流水线错误映射为HTTP状态码与提示文本
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, analyzer.ErrUnsupportedFileType):
		return consts.StatusBadRequest, "Only PDF files are supported."
	case errors.Is(err, analyzer.ErrEmptyText):
		return consts.StatusInternalServerError, "No text could be extracted from the PDF"
	case errors.Is(err, analyzer.ErrExtractTextFailed):
		if errors.Is(err, context.DeadlineExceeded) {
			return consts.StatusInternalServerError, "PDF processing timed out"
		}
		return consts.StatusInternalServerError, "PDF extraction failed: " + err.Error()
	case errors.Is(err, analyzer.ErrAnalysisTimeout), errors.Is(err, context.DeadlineExceeded):
		return consts.StatusInternalServerError, "Analysis timed out. Please try again or upload a shorter resume."
	case errors.Is(err, analyzer.ErrAllAnalysesFailed):
		return consts.StatusInternalServerError, "AI analysis failed: " + err.Error()
	default:
		return consts.StatusInternalServerError, "An unexpected error occurred: " + err.Error()
	}
}
