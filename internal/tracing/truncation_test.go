package tracing

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		maxLength int
		expected  string
	}{
		{"短字符串不变", "hello", 10, "hello"},
		{"恰好等长不变", "hello", 5, "hello"},
		{"超长保留首尾", "abcdefghijklmnop", 11, "abcd...mnop"},
		{"极短上限直接截断", "abcdef", 3, "abc"},
		{"空字符串", "", 10, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, TruncateString(tc.input, tc.maxLength))
		})
	}
}

func TestTruncateStringIsRuneSafe(t *testing.T) {
	long := strings.Repeat("简历内容", 100)
	out := TruncateString(long, 11)
	assert.True(t, utf8.ValidString(out), "截断不应该切开多字节字符")
	assert.Contains(t, out, "...")
}

func TestMaskPII(t *testing.T) {
	assert.Equal(t, "", MaskPII(""))
	assert.Equal(t, "*", MaskPII("张"))
	assert.Equal(t, "张*", MaskPII("张三"))
	assert.Equal(t, "王*明", MaskPII("王小明"))
	assert.Equal(t, "13*******78", MaskPII("13812345678"))
}

func TestSafeAttributeValue(t *testing.T) {
	// 属性名包含敏感关键字时掩码，否则按长度截断
	assert.Equal(t, "us************om", SafeAttributeValue("user_email", "user@example.com", 200))
	assert.Equal(t, "resume.pdf", SafeAttributeValue("filename", "resume.pdf", MaxHeaderLength))
}

func TestSafeHelpers(t *testing.T) {
	long := strings.Repeat("x", 500)

	assert.LessOrEqual(t, len([]rune(SafePrompt(long))), MaxPromptLength)
	assert.LessOrEqual(t, len([]rune(SafeRedisKey(long))), MaxRedisLength)
	assert.LessOrEqual(t, len([]rune(SafeResumeContent(long))), MaxResumeLength)
	assert.Equal(t, "resume:report:abc", SafeRedisKey("resume:report:abc"), "短键不应该被改写")
}
