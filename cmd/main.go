package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-analyzer-go/internal/agent"
	"resume-analyzer-go/internal/analyzer"
	"resume-analyzer-go/internal/api/handler"
	"resume-analyzer-go/internal/api/router"
	"resume-analyzer-go/internal/config"
	"resume-analyzer-go/internal/parser"
	"resume-analyzer-go/internal/resilience"
	"resume-analyzer-go/internal/scorer"
	"resume-analyzer-go/internal/storage"
	"resume-analyzer-go/internal/tracing"
	"resume-analyzer-go/pkg/ratelimit"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	appCoreLogger "resume-analyzer-go/internal/logger"

	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
)

var serviceName = "resume-analyzer" //nolint:gochecknoglobals

func main() {
	initLogger()

	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "internal/config/config.yaml", "Path to config file")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		glog.Fatalf("加载配置失败: %v", err)
	}
	glog.Info("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.InitTracerProvider(ctx, cfg.Tracing, serviceName)
	if err != nil {
		glog.Fatalf("初始化链路追踪失败: %v", err)
	}
	if cfg.Tracing.Enabled {
		glog.Infof("链路追踪已启用，上报端点: %s", cfg.Tracing.Endpoint)
	}

	pdfExtractor, err := parser.NewEinoPDFTextExtractor(ctx,
		parser.WithEinoLogger(appCoreLogger.Component("pdf_extractor")),
		parser.WithExtractTimeout(config.GetDuration(cfg.Extractor.Timeout, 20*time.Second)),
	)
	if err != nil {
		glog.Fatalf("创建Eino PDF提取器失败: %v", err)
	}
	glog.Info("Eino PDF提取器初始化成功")

	contentProcessor := parser.NewResumeContentProcessor()
	glog.Info("内容加工器初始化成功")

	atsScorer := scorer.NewATSScorer(
		scorer.WithPerturbationAmplitude(cfg.Scoring.PerturbationAmplitude),
	)
	glog.Info("ATS评分器初始化成功")

	mistralOpts := []agent.MistralOption{
		agent.WithTemperature(cfg.Analyzer.Temperature),
		agent.WithMaxTokens(cfg.Analyzer.MaxTokens),
	}
	qpm := cfg.GetQPMForModel(cfg.Mistral.Model)
	if qpm == 0 {
		qpm = cfg.Analyzer.QPM
	}
	if qpm > 0 {
		mistralOpts = append(mistralOpts, agent.WithQPMLimiter(ratelimit.NewTokenBucket(qpm, qpm)))
		glog.Infof("模型 %s 的QPM限流已启用: %d", cfg.Mistral.Model, qpm)
	}
	llm, err := agent.NewMistralChatModel(cfg.Mistral.APIKey, cfg.Mistral.Model, cfg.Mistral.APIURL, mistralOpts...)
	if err != nil {
		glog.Fatalf("初始化Mistral客户端失败: %v", err)
	}
	glog.Info("Mistral客户端初始化成功")

	narrative, err := analyzer.NewLLMNarrativeAnalyzer(llm,
		analyzer.WithAnalysisTimeout(config.GetDuration(cfg.Analyzer.AnalysisTimeout, 45*time.Second)),
		analyzer.WithPromptTextLimit(cfg.Analyzer.PromptTextLimit),
		analyzer.WithExecutor(resilience.NewExecutor(resilienceConfig(cfg))),
	)
	if err != nil {
		glog.Fatalf("初始化叙事分析器失败: %v", err)
	}
	glog.Info("叙事分析器初始化成功")

	var reportCache analyzer.ReportCache
	var redisAdapter *storage.Redis
	if cfg.Redis.Enabled {
		redisAdapter, err = storage.NewRedisAdapter(&cfg.Redis)
		if err != nil {
			// 缓存是可选依赖，连接失败时降级为全量分析
			glog.Warnf("初始化Redis失败，报告缓存关闭: %v", err)
		} else {
			reportCache = redisAdapter
			glog.Info("Redis报告缓存初始化成功")
		}
	}

	pipeline, err := analyzer.NewPipeline(
		analyzer.NewComponents(
			analyzer.WithcompExtractor(pdfExtractor),
			analyzer.WithcompProcessor(contentProcessor),
			analyzer.WithcompScorer(atsScorer),
			analyzer.WithcompNarrative(narrative),
			analyzer.WithcompCache(reportCache),
		),
		&analyzer.Settings{},
		analyzer.WithsetPipelinetimeout(config.GetDuration(cfg.Analyzer.PipelineTimeout, 120*time.Second)),
	)
	if err != nil {
		glog.Fatalf("初始化分析流水线失败: %v", err)
	}
	glog.Info("分析流水线初始化成功")

	analyzeHandler := handler.NewAnalyzeHandler(cfg, pipeline)

	tracer, tracerCfg := hertztracing.NewServerTracer()
	h := server.New(
		tracer,
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	)
	h.Use(hertztracing.ServerMiddleware(tracerCfg))
	h.Use(router.NewCORSMiddleware(cfg.Server.CORSOrigins))
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		glog.CtxInfof(c, "Request: %s %s", string(ctx.Method()), string(ctx.Path()))
		ctx.Next(c)
		glog.CtxInfof(c, "Response: status %d", ctx.Response.StatusCode())
	})

	router.RegisterRoutes(h, analyzeHandler)
	glog.Info("HTTP路由注册成功")

	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)

	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("服务器关闭失败: %v", err)
	}
	if redisAdapter != nil {
		if err := redisAdapter.Close(); err != nil {
			glog.Errorf("关闭Redis连接失败: %v", err)
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		glog.Errorf("关闭链路追踪失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

// resilienceConfig 把分析器配置映射到重试与熔断策略
func resilienceConfig(cfg *config.Config) resilience.Config {
	rc := resilience.DefaultConfig()
	rc.RetryMaxAttempts = cfg.Analyzer.MaxRetries + 1
	if cfg.Analyzer.RetryWaitSeconds > 0 {
		rc.RetryInitialBackoff = time.Duration(cfg.Analyzer.RetryWaitSeconds) * time.Second
		rc.RetryMaxBackoff = rc.RetryInitialBackoff
	}
	rc.BreakerEnabled = cfg.Analyzer.EnableBreaker
	if cfg.Analyzer.BreakerOpenSecond > 0 {
		rc.BreakerOpenTimeout = time.Duration(cfg.Analyzer.BreakerOpenSecond) * time.Second
	}
	return rc
}

func initLogger() {
	logFilePath := "logs/app.log"
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Fatalf("无法创建日志目录: %v", err)
	}
	fileWriter, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatalf("无法打开日志文件 %s: %v", logFilePath, err)
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}

	multiWriter := zerolog.MultiLevelWriter(consoleWriter, fileWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimeFieldFormat = "15:04:05"

	logger := zerolog.New(multiWriter).With().Timestamp().Caller().Logger()

	appCoreLogger.Logger = logger
	zlog.Logger = logger

	hertzCompatibleLogger := hertzadapter.From(appCoreLogger.Logger)
	glog.SetLogger(hertzCompatibleLogger)
	glog.SetLevel(glog.LevelInfo)

	log.Println("Logger initialized with Zerolog, writing to console and file:", logFilePath)
}
