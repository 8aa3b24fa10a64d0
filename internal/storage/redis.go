package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"resume-analyzer-go/internal/config"
	"resume-analyzer-go/internal/constants"
	"resume-analyzer-go/internal/logger"
	"resume-analyzer-go/internal/tracing"
	"resume-analyzer-go/internal/types"
)

// ErrNotFound is returned when a key is not found in Redis.
// It wraps the underlying redis.Nil error for abstraction.
var ErrNotFound = redis.Nil

// Redis wraps the Redis client，作为可选的分析报告缓存。
// 缓存键由规范化简历文本的MD5派生，相同文本命中同一份报告。
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
	logger zerolog.Logger
}

// NewRedisAdapter creates a new Redis client connection
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	opt := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		// 连接池设置
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		// 超时设置
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,

		// 重试设置
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: time.Duration(cfg.MinRetryBackoffMS) * time.Millisecond,
		MaxRetryBackoff: time.Duration(cfg.MaxRetryBackoffMS) * time.Millisecond,
	}

	client := redis.NewClient(opt)

	// 添加OpenTelemetry钩子, 记录所有Redis操作
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument Redis with OpenTelemetry: %w", err)
	}

	// Ping to check connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return &Redis{
		Client: client,
		config: cfg,
		logger: logger.Component("redis_cache"),
	}, nil
}

// Close closes the Redis client connection
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Ping checks the Redis connection
func (r *Redis) Ping(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.Client.Ping(ctx).Err()
}

// TextMD5 计算规范化简历文本的MD5十六进制摘要，作为缓存键成分
func TextMD5(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// reportKey 拼接报告缓存键
func reportKey(textMD5 string) string {
	return constants.ReportCachePrefix + textMD5
}

// reportExpireDuration 报告缓存过期时间
func (r *Redis) reportExpireDuration() time.Duration {
	if r.config.ReportExpireHours <= 0 {
		return constants.ReportCacheDuration
	}
	return time.Duration(r.config.ReportExpireHours) * time.Hour
}

// GetReport 按文本MD5读取缓存的分析报告，未命中返回ErrNotFound
func (r *Redis) GetReport(ctx context.Context, textMD5 string) (*types.AnalysisReport, error) {
	if r.Client == nil {
		return nil, fmt.Errorf("redis client is not initialized")
	}

	key := reportKey(textMD5)
	data, err := r.Client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn().Err(err).Str("key", tracing.SafeRedisKey(key)).Msg("读取报告缓存失败")
		}
		return nil, err
	}

	var report types.AnalysisReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("反序列化缓存报告失败: %w", err)
	}
	return &report, nil
}

// SetReport 按文本MD5写入分析报告并设置过期时间
func (r *Redis) SetReport(ctx context.Context, textMD5 string, report *types.AnalysisReport) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("序列化分析报告失败: %w", err)
	}

	key := reportKey(textMD5)
	if err := r.Client.Set(ctx, key, data, r.reportExpireDuration()).Err(); err != nil {
		r.logger.Warn().Err(err).Str("key", tracing.SafeRedisKey(key)).Msg("写入报告缓存失败")
		return err
	}
	r.logger.Debug().Str("key", tracing.SafeRedisKey(key)).Msg("报告已写入缓存")
	return nil
}
