package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// RedisConfig holds configuration for Redis
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"` // 是否启用报告缓存，默认关闭
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// 连接池设置
	PoolSize     int `yaml:"pool_size"`      // 连接池大小
	MinIdleConns int `yaml:"min_idle_conns"` // 最小空闲连接数
	// 超时设置
	DialTimeoutSeconds  int `yaml:"dial_timeout_seconds"`  // 连接超时(秒)
	ReadTimeoutSeconds  int `yaml:"read_timeout_seconds"`  // 读取超时(秒)
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"` // 写入超时(秒)
	// 重试设置
	MaxRetries        int `yaml:"max_retries"`          // 最大重试次数
	MinRetryBackoffMS int `yaml:"min_retry_backoff_ms"` // 最小重试间隔(毫秒)
	MaxRetryBackoffMS int `yaml:"max_retry_backoff_ms"` // 最大重试间隔(毫秒)
	// 报告缓存过期时间(小时)
	ReportExpireHours int `yaml:"report_expire_hours"`
}

// Config 应用程序配置
type Config struct {
	Mistral struct {
		APIKey string `yaml:"api_key"`
		APIURL string `yaml:"api_url"`
		Model  string `yaml:"model"`
	} `yaml:"mistral"`

	// PDF文本提取配置
	Extractor ExtractorConfig `yaml:"extractor"`

	// 叙事分析器配置
	Analyzer AnalyzerConfig `yaml:"analyzer"`

	// ATS评分配置
	Scoring ScoringConfig `yaml:"scoring"`

	// Redis配置（可选的报告缓存）
	Redis RedisConfig `yaml:"redis"`

	// 服务器配置
	Server ServerConfig `yaml:"server"`

	// 日志配置
	Logger LoggerConfig `yaml:"logger"`

	// 链路追踪配置
	Tracing TracingConfig `yaml:"tracing"`

	// 模型QPM限制配置
	ModelQPMLimits map[string]int `yaml:"model_qpm_limits"`
}

// TracingConfig OpenTelemetry链路追踪配置
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`      // 是否上报到collector
	Endpoint    string  `yaml:"endpoint"`     // OTLP gRPC端点，例如 "localhost:4317"
	SampleRatio float64 `yaml:"sample_ratio"` // 采样比例，0-1
}

// ExtractorConfig PDF文本提取配置结构
type ExtractorConfig struct {
	Timeout string `yaml:"timeout"` // 单个文件提取超时，例如 "20s"
}

// AnalyzerConfig 定义叙事分析器的配置
type AnalyzerConfig struct {
	Temperature       float64 `yaml:"temperature"`
	MaxTokens         int     `yaml:"maxTokens"`
	AnalysisTimeout   string  `yaml:"analysisTimeout"`   // 单次叙事分析超时，例如 "45s"
	PipelineTimeout   string  `yaml:"pipelineTimeout"`   // 整条流水线超时上限
	QPM               int     `yaml:"qpm"`               // 每分钟请求数限制
	MaxRetries        int     `yaml:"maxRetries"`        // 超时重试次数上限
	RetryWaitSeconds  int     `yaml:"retryWaitSeconds"`  // 重试等待时间(秒)
	PromptTextLimit   int     `yaml:"promptTextLimit"`   // 注入提示词的正文截断长度
	EnableBreaker     bool    `yaml:"enableBreaker"`     // 是否启用熔断器
	BreakerOpenSecond int     `yaml:"breakerOpenSecond"` // 熔断打开时长(秒)
}

// ScoringConfig ATS评分配置
type ScoringConfig struct {
	// 随机扰动幅度，0表示完全确定性输出（测试环境使用）
	PerturbationAmplitude float64 `yaml:"perturbation_amplitude"`
}

// ServerConfig 定义服务器配置
type ServerConfig struct {
	Address string `yaml:"address"` // 例如 ":8080" or "0.0.0.0:8080"
	// CORS允许的来源列表，为空时允许所有来源
	CORSOrigins []string `yaml:"cors_origins"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	Format       string `yaml:"format"`        // json, pretty
	TimeFormat   string `yaml:"time_format"`   // 时间格式
	ReportCaller bool   `yaml:"report_caller"` // 是否报告调用位置
}

// LoadConfig 从文件加载配置
func LoadConfig(configPath string) (*Config, error) {
	// 如果未指定配置文件路径，则尝试在默认位置查找
	if configPath == "" {
		searchPaths := []string{
			"config.yaml",
			"./config.yaml",
			"../config.yaml",
			"../../config.yaml",
			filepath.Join(os.Getenv("HOME"), ".resume-analyzer", "config.yaml"),
		}

		// 获取当前可执行文件路径
		execPath, err := os.Executable()
		if err == nil {
			execDir := filepath.Dir(execPath)
			searchPaths = append(searchPaths, filepath.Join(execDir, "config.yaml"))
			searchPaths = append(searchPaths, filepath.Join(execDir, "..", "config.yaml"))
		}

		for _, path := range searchPaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}

		// 如果仍找不到配置文件，测试环境返回默认配置，否则使用默认路径
		if configPath == "" {
			if inTestEnv() {
				return createTestConfig(), nil
			}
			configPath = "config.yaml"
		}
	}

	// 检查文件是否存在
	if _, err := os.Stat(configPath); err != nil {
		if inTestEnv() {
			return createTestConfig(), nil
		}
		return nil, fmt.Errorf("配置文件不存在: %s", configPath)
	}

	// 读取配置文件
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 解析配置文件
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 从环境变量覆盖配置（如果存在）
	if envKey := os.Getenv("MISTRAL_API_KEY"); envKey != "" {
		config.Mistral.APIKey = envKey
	}
	if envURL := os.Getenv("MISTRAL_API_URL"); envURL != "" {
		config.Mistral.APIURL = envURL
	}
	if envModel := os.Getenv("MISTRAL_MODEL"); envModel != "" {
		config.Mistral.Model = envModel
	}

	applyDefaults(&config)

	return &config, nil
}

// inTestEnv 根据命令行参数判断是否运行在测试环境中
func inTestEnv() bool {
	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			return true
		}
	}
	return false
}

// applyDefaults 补齐未设置的配置项
func applyDefaults(config *Config) {
	if config.Server.Address == "" {
		config.Server.Address = ":8080"
	}
	if config.Mistral.APIURL == "" {
		config.Mistral.APIURL = "https://api.mistral.ai/v1/chat/completions"
	}
	if config.Mistral.Model == "" {
		config.Mistral.Model = "mistral-medium"
	}
	if config.Extractor.Timeout == "" {
		config.Extractor.Timeout = "20s"
	}
	if config.Analyzer.Temperature == 0 {
		config.Analyzer.Temperature = 0.7
	}
	if config.Analyzer.MaxTokens == 0 {
		config.Analyzer.MaxTokens = 1000
	}
	if config.Analyzer.AnalysisTimeout == "" {
		config.Analyzer.AnalysisTimeout = "45s"
	}
	if config.Analyzer.PipelineTimeout == "" {
		config.Analyzer.PipelineTimeout = "120s"
	}
	if config.Analyzer.MaxRetries == 0 {
		config.Analyzer.MaxRetries = 2
	}
	if config.Analyzer.PromptTextLimit == 0 {
		config.Analyzer.PromptTextLimit = 2000
	}
	if config.Scoring.PerturbationAmplitude == 0 {
		config.Scoring.PerturbationAmplitude = 1.0
	}
	if config.Redis.ReportExpireHours == 0 {
		config.Redis.ReportExpireHours = 24
	}
	if config.Tracing.Endpoint == "" {
		config.Tracing.Endpoint = "localhost:4317"
	}
	if config.Tracing.SampleRatio == 0 {
		config.Tracing.SampleRatio = 1.0
	}
}

// createTestConfig 测试环境的默认配置，关闭评分扰动保证可复现
func createTestConfig() *Config {
	config := createDefaultConfig()
	config.Scoring.PerturbationAmplitude = 0
	return config
}

// 创建一个默认配置
func createDefaultConfig() *Config {
	config := &Config{}

	config.Mistral.APIURL = "https://api.mistral.ai/v1/chat/completions"
	config.Mistral.Model = "mistral-medium"
	if envKey := os.Getenv("MISTRAL_API_KEY"); envKey != "" {
		config.Mistral.APIKey = envKey
	} else {
		config.Mistral.APIKey = "test_api_key"
	}

	// 提取器默认配置
	config.Extractor.Timeout = "20s"

	// 分析器默认配置
	config.Analyzer.Temperature = 0.7
	config.Analyzer.MaxTokens = 1000
	config.Analyzer.AnalysisTimeout = "45s"
	config.Analyzer.PipelineTimeout = "120s"
	config.Analyzer.QPM = 0
	config.Analyzer.MaxRetries = 2
	config.Analyzer.RetryWaitSeconds = 1
	config.Analyzer.PromptTextLimit = 2000

	// 评分默认配置
	config.Scoring.PerturbationAmplitude = 1.0

	// Redis默认配置（缓存默认关闭）
	config.Redis.Enabled = false
	config.Redis.Address = "localhost:6379"
	config.Redis.Password = ""
	config.Redis.DB = 0
	config.Redis.PoolSize = 10
	config.Redis.MinIdleConns = 2
	config.Redis.DialTimeoutSeconds = 5
	config.Redis.ReadTimeoutSeconds = 3
	config.Redis.WriteTimeoutSeconds = 3
	config.Redis.MaxRetries = 3
	config.Redis.MinRetryBackoffMS = 8
	config.Redis.MaxRetryBackoffMS = 512
	config.Redis.ReportExpireHours = 24

	// 服务器默认配置
	config.Server.Address = ":8080"

	// 链路追踪默认配置（默认不上报）
	config.Tracing.Enabled = false
	config.Tracing.Endpoint = "localhost:4317"
	config.Tracing.SampleRatio = 1.0

	// 日志默认配置
	config.Logger.Level = "info"
	config.Logger.Format = "pretty" // 开发环境默认使用美化输出
	config.Logger.TimeFormat = "2006-01-02 15:04:05"
	config.Logger.ReportCaller = true

	// 默认的模型QPM限制
	config.ModelQPMLimits = map[string]int{
		"mistral-medium": 600,
		"mistral-small":  1200,
		"mistral-large":  300,
	}

	return config
}

// CreateSampleConfig 创建一个示例配置文件
func CreateSampleConfig(filePath string) error {
	// 检查文件是否已存在
	if _, err := os.Stat(filePath); err == nil {
		return fmt.Errorf("文件 '%s' 已存在，不会覆盖", filePath)
	}

	config := createDefaultConfig()

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	err = os.WriteFile(filePath, data, 0644)
	if err != nil {
		return fmt.Errorf("写入示例配置文件 '%s' 失败: %w", filePath, err)
	}

	fmt.Printf("示例配置文件已创建: %s\n", filePath)
	return nil
}

// GetQPMForModel 返回指定模型的QPM限制，未配置时返回0表示不限流
func (c *Config) GetQPMForModel(model string) int {
	if c.ModelQPMLimits == nil {
		return 0
	}
	return c.ModelQPMLimits[model]
}

// GetDuration utility to parse duration strings from config
func GetDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	if durationStr == "" {
		return defaultDuration
	}
	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return defaultDuration
	}
	return d
}
