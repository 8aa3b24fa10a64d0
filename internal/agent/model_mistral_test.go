package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeMistralServer 搭建一个返回固定响应的 OpenAI 兼容假服务
func newFakeMistralServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func completionResponse(role string, content *string) string {
	resp := chatCompletionResponse{
		Id:     "cmpl-test",
		Object: "chat.completion",
		Model:  "mistral-medium",
		Choices: []chatChoice{
			{
				Index:        0,
				Message:      chatMessage{Role: role, Content: content},
				FinishReason: "stop",
			},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestNewMistralChatModelValidation(t *testing.T) {
	_, err := NewMistralChatModel("", "", "")
	assert.Error(t, err, "空API密钥应该返回错误")

	m, err := NewMistralChatModel("sk-test", "", "")
	require.NoError(t, err)
	assert.Equal(t, defaultMistralModelName, m.modelName, "未指定模型时应该使用默认模型")
	assert.Equal(t, mistralChatCompletionsURL, m.apiURL, "未指定URL时应该使用默认地址")
	assert.Equal(t, defaultTemperature, m.temperature)
	assert.Equal(t, defaultMaxTokens, m.maxTokens)
}

func TestMistralChatModelOptions(t *testing.T) {
	m, err := NewMistralChatModel("sk-test", "mistral-large", "http://localhost:9999",
		WithTemperature(0.3),
		WithMaxTokens(256),
	)
	require.NoError(t, err)

	assert.Equal(t, 0.3, m.temperature)
	assert.Equal(t, 256, m.maxTokens)

	// 非法值不生效
	WithTemperature(-1)(m)
	WithMaxTokens(0)(m)
	assert.Equal(t, 0.3, m.temperature)
	assert.Equal(t, 256, m.maxTokens)
}

func TestGenerateSuccess(t *testing.T) {
	content := "这是模型的回答"
	var capturedAuth string
	var capturedReq chatCompletionRequest

	server := newFakeMistralServer(t, func(w http.ResponseWriter, r *http.Request) {
		capturedAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&capturedReq))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionResponse("assistant", &content)))
	})

	m, err := NewMistralChatModel("sk-test", "mistral-large", server.URL, WithTemperature(0.2))
	require.NoError(t, err)

	msg, err := m.Generate(context.Background(), []*schema.Message{
		{Role: schema.RoleType("system"), Content: "你是一个助手"},
		{Role: schema.RoleType("user"), Content: "你好"},
	})
	require.NoError(t, err)

	assert.Equal(t, schema.RoleType("assistant"), msg.Role)
	assert.Equal(t, content, msg.Content)
	assert.Equal(t, "Bearer sk-test", capturedAuth, "请求应该携带Bearer令牌")
	assert.Equal(t, "mistral-large", capturedReq.Model)
	assert.Equal(t, 0.2, capturedReq.Temperature)
	require.Len(t, capturedReq.Messages, 2)
	assert.Equal(t, "你好", capturedReq.Messages[1].Content)
}

func TestGenerateNon200Status(t *testing.T) {
	server := newFakeMistralServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
	})

	m, err := NewMistralChatModel("sk-bad", "", server.URL)
	require.NoError(t, err)

	_, err = m.Generate(context.Background(), []*schema.Message{
		{Role: schema.RoleType("user"), Content: "hi"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API 请求失败")
}

func TestGenerateEmptyChoices(t *testing.T) {
	server := newFakeMistralServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-test","object":"chat.completion","choices":[]}`))
	})

	m, err := NewMistralChatModel("sk-test", "", server.URL)
	require.NoError(t, err)

	_, err = m.Generate(context.Background(), []*schema.Message{
		{Role: schema.RoleType("user"), Content: "hi"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "空选项")
}

func TestGenerateDefaultsMissingRole(t *testing.T) {
	content := "ok"
	server := newFakeMistralServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionResponse("", &content)))
	})

	m, err := NewMistralChatModel("sk-test", "", server.URL)
	require.NoError(t, err)

	msg, err := m.Generate(context.Background(), []*schema.Message{
		{Role: schema.RoleType("user"), Content: "hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, schema.RoleType("assistant"), msg.Role, "缺失角色时应该回退为assistant")
}

func TestGenerateNilContent(t *testing.T) {
	server := newFakeMistralServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionResponse("assistant", nil)))
	})

	m, err := NewMistralChatModel("sk-test", "", server.URL)
	require.NoError(t, err)

	msg, err := m.Generate(context.Background(), []*schema.Message{
		{Role: schema.RoleType("user"), Content: "hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "", msg.Content, "content为null时应该得到空字符串")
}

func TestGenerateContextCancelled(t *testing.T) {
	server := newFakeMistralServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	m, err := NewMistralChatModel("sk-test", "", server.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = m.Generate(ctx, []*schema.Message{
		{Role: schema.RoleType("user"), Content: "hi"},
	})
	assert.Error(t, err, "已取消的上下文应该让请求失败")
}

func TestStreamNotImplemented(t *testing.T) {
	m, err := NewMistralChatModel("sk-test", "", "http://localhost:9999")
	require.NoError(t, err)

	_, err = m.Stream(context.Background(), []*schema.Message{
		{Role: schema.RoleType("user"), Content: "hi"},
	})
	assert.Error(t, err)
}
