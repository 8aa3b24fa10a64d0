package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"resume-analyzer-go/internal/logger"
	"resume-analyzer-go/internal/tracing"
	"resume-analyzer-go/pkg/ratelimit"
)

const (
	// Mistral 的 OpenAI 兼容接口
	mistralChatCompletionsURL = "https://api.mistral.ai/v1/chat/completions"
	defaultMistralModelName   = "mistral-medium"

	defaultTemperature = 0.7
	defaultMaxTokens   = 1000
)

// MistralChatModel 实现 model.BaseChatModel 接口，
// 通过 OpenAI 兼容的 HTTP 接口与 Mistral 模型交互。
type MistralChatModel struct {
	apiKey      string
	modelName   string
	apiURL      string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	limiter     *ratelimit.TokenBucket
	logger      zerolog.Logger
}

// MistralOption Mistral客户端的配置选项
type MistralOption func(*MistralChatModel)

// WithTemperature 设置采样温度
func WithTemperature(t float64) MistralOption {
	return func(m *MistralChatModel) {
		if t > 0 {
			m.temperature = t
		}
	}
}

// WithMaxTokens 设置最大生成token数
func WithMaxTokens(n int) MistralOption {
	return func(m *MistralChatModel) {
		if n > 0 {
			m.maxTokens = n
		}
	}
}

// WithQPMLimiter 设置QPM限流器，nil表示不限流
func WithQPMLimiter(limiter *ratelimit.TokenBucket) MistralOption {
	return func(m *MistralChatModel) {
		m.limiter = limiter
	}
}

// WithHTTPClient 注入自定义HTTP客户端，测试时指向本地假服务
func WithHTTPClient(client *http.Client) MistralOption {
	return func(m *MistralChatModel) {
		if client != nil {
			m.httpClient = client
		}
	}
}

// NewMistralChatModel 创建一个新的 MistralChatModel 实例。
func NewMistralChatModel(apiKey string, modelName string, apiURL string, options ...MistralOption) (*MistralChatModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API 密钥不能为空")
	}

	mn := modelName
	if strings.TrimSpace(mn) == "" {
		mn = defaultMistralModelName
	}

	url := apiURL
	if strings.TrimSpace(url) == "" {
		url = mistralChatCompletionsURL
	}

	m := &MistralChatModel{
		apiKey:      apiKey,
		modelName:   mn,
		apiURL:      url,
		temperature: defaultTemperature,
		maxTokens:   defaultMaxTokens,
		httpClient:  &http.Client{},
		logger:      logger.Component("mistral_model"),
	}

	for _, option := range options {
		option(m)
	}

	m.logger.Info().Str("api_url", url).Str("model", mn).Msg("Mistral LLM 客户端已初始化")
	return m, nil
}

// --- OpenAI Compatible Request/Response Structures ---

type chatCompletionRequest struct {
	Model       string            `json:"model"`
	Messages    []*schema.Message `json:"messages"` // Eino schema.Message 的 role/content 与 OpenAI 格式兼容
	Temperature float64           `json:"temperature"`
	MaxTokens   int               `json:"max_tokens"`
}

type chatMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatCompletionResponse struct {
	Id      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

// Generate 实现 model.BaseChatModel 接口
func (m *MistralChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	for _, opt := range options {
		_ = opt // 生成参数固定来自构造配置，调用级选项暂不支持
	}

	// 限流先于请求，上下文取消时立即返回
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("等待限流令牌失败: %w", err)
		}
	}

	reqPayload := chatCompletionRequest{
		Model:       m.modelName,
		Messages:    messages,
		Temperature: m.temperature,
		MaxTokens:   m.maxTokens,
	}

	jsonData, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建 HTTP 请求失败: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+m.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	m.logger.Debug().
		Str("model", m.modelName).
		Str("payload", tracing.SafePrompt(string(jsonData))).
		Msg("发送 Mistral 请求")

	httpResp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("发送 HTTP 请求失败: %w", err)
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		m.logger.Warn().
			Str("status", httpResp.Status).
			Str("body", tracing.TruncateString(string(bodyBytes), tracing.DefaultMaxLength)).
			Msg("Mistral API 返回非200状态")
		return nil, fmt.Errorf("API 请求失败，状态 %s: %s", httpResp.Status, string(bodyBytes))
	}

	var apiResp chatCompletionResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return nil, fmt.Errorf("反序列化 API 响应失败: %w。响应体: %s", err, string(bodyBytes))
	}

	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("从 API 收到空选项: %s", string(bodyBytes))
	}

	apiMessage := apiResp.Choices[0].Message
	responseContent := ""
	if apiMessage.Content != nil {
		responseContent = *apiMessage.Content
	}

	resultMessage := &schema.Message{
		Role:    schema.RoleType(apiMessage.Role),
		Content: responseContent,
	}
	if resultMessage.Role == "" {
		resultMessage.Role = schema.RoleType("assistant")
	}

	return resultMessage, nil
}

// Stream 实现 model.BaseChatModel 接口 (placeholder)
func (m *MistralChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	m.logger.Warn().Msg("Stream 方法被调用，但尚未针对 Mistral 接口实现")
	return nil, fmt.Errorf("MistralChatModel 的 Stream 方法未实现")
}

var _ model.BaseChatModel = (*MistralChatModel)(nil)
