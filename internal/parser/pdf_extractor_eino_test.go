package parser

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-analyzer-go/internal/logger"
)

func TestNewEinoPDFTextExtractor(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	extractor, err := NewEinoPDFTextExtractor(ctx)
	require.NoError(t, err, "创建PDF提取器不应返回错误")
	require.NotNil(t, extractor, "创建的PDF提取器不应为nil")
	require.NotNil(t, extractor.parser, "PDF提取器内部的parser不应为nil")
	assert.Equal(t, 20*time.Second, extractor.timeout, "默认提取超时应为20秒")

	// 测试带自定义超时的创建
	custom, err := NewEinoPDFTextExtractor(ctx,
		WithEinoLogger(logger.Component("test_pdf")),
		WithExtractTimeout(7*time.Second),
	)
	require.NoError(t, err, "创建带选项的PDF提取器不应返回错误")
	assert.Equal(t, 7*time.Second, custom.timeout, "应该使用配置的提取超时")
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "统一行结束符",
			input:    "line1\r\nline2\rline3",
			expected: "line1\nline2\nline3",
		},
		{
			name:     "折叠连续空行",
			input:    "para1\n\n\n\npara2",
			expected: "para1\n\npara2",
		},
		{
			name:     "折叠带空白的空行",
			input:    "para1\n   \t\npara2",
			expected: "para1\n\npara2",
		},
		{
			name:     "折叠水平空白串",
			input:    "word1    word2\t\tword3",
			expected: "word1 word2 word3",
		},
		{
			name:     "去除首尾空白",
			input:    "  \n content \n  ",
			expected: "content",
		},
		{
			name:     "单个制表符保留",
			input:    "a\tb",
			expected: "a\tb",
		},
		{
			name:     "空字符串",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeText(tt.input))
		})
	}
}

func TestNormalizeTextKeepsParagraphStructure(t *testing.T) {
	input := "Name Surname\r\n\r\nWork   Experience\r\nBuilt  things\n\n\nEducation\nSome school"
	got := NormalizeText(input)

	assert.NotContains(t, got, "\r", "规范化后不应残留回车符")
	assert.NotContains(t, got, "\n\n\n", "规范化后不应有三个以上连续换行")
	assert.NotContains(t, got, "  ", "规范化后不应有连续空格")
	assert.True(t, strings.Contains(got, "\n\n"), "段落分隔的空行应该保留")
}

func TestExtractFromFileWithRealPDF(t *testing.T) {
	// 本地存在样例PDF时才执行，CI环境跳过
	testPDFs := []string{
		"testdata/sample_resume.pdf",
		"../testdata/sample_resume.pdf",
		"../../testdata/sample_resume.pdf",
	}

	var filePath string
	for _, path := range testPDFs {
		if _, err := os.Stat(path); err == nil {
			filePath = path
			break
		}
	}
	if filePath == "" {
		t.Skip("找不到测试PDF文件，跳过测试")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	extractor, err := NewEinoPDFTextExtractor(ctx)
	require.NoError(t, err, "创建PDF提取器不应返回错误")

	text, metadata, err := extractor.ExtractFromFile(ctx, filePath)
	require.NoError(t, err, "PDF提取不应返回错误")

	assert.NotEmpty(t, text, "提取的文本内容不应为空")
	assert.Contains(t, metadata, "source_file_path", "元数据应该包含source_file_path")
	assert.Contains(t, metadata, "page_count", "元数据应该包含页数")
	assert.Contains(t, metadata, "text_length", "元数据应该包含文本长度")
	t.Logf("从%s提取了%d个字符的文本", filePath, len(text))
}
