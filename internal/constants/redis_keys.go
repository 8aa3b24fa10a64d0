package constants

import "time"

// Redis Key 前缀和格式常量
// 使用统一的命名规范: {app}:{entity}:{unique_id}
const (
	// ReportCachePrefix 分析报告缓存 (STRING, JSON序列化的报告)
	// 格式: resume:report:{解析文本的MD5}
	ReportCachePrefix = "resume:report:"

	// ReportCacheDuration 报告缓存的默认过期时间，可被配置覆盖
	ReportCacheDuration = 24 * time.Hour
)
