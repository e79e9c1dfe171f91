package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeColumnName 规范化列名
//
// 去除首尾空白，内部连续空白压缩为单个空格。
// 示例: "  Visit   No \n" -> "Visit No"
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	return whitespaceRe.ReplaceAllString(name, " ")
}

// StripSpaces 去除全部空白并转小写（用于兜底的包含匹配）
func StripSpaces(name string) string {
	return strings.ToLower(whitespaceRe.ReplaceAllString(name, ""))
}

// ContainsAny 检查字符串是否包含任意一个关键词
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ParseAmount 安全转换金额
//
// 转换失败返回 0，从不报错；行级金额缺失不应使整行失败。
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "") // 移除千分位
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
