package parser

import (
	"strconv"
	"strings"
	"time"
)

// visitDateLayouts 就诊日期支持的文本格式（按优先级排序）
//
// 前四种覆盖常见导出格式，"01-02-06" 是 excelize 对日期单元格的默认渲染。
var visitDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02-Jan-2006",
	"2-Jan-06",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1-2-06",
	time.RFC3339,
}

// excelEpoch Excel 序列日期的起点（1900 日期系统）
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseVisitDate 尽力解析就诊日期
//
// 依次尝试文本格式与 Excel 序列数字；全部失败时 ok 为 false，
// 调用方应将该行排除出月度聚合并计入诊断。
func ParseVisitDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range visitDateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}

	// Excel 序列日期：1900-01-01 为 1
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial >= 1 && serial < 300000 {
			return excelEpoch.AddDate(0, 0, int(serial)), true
		}
	}

	return time.Time{}, false
}

// MonthLabel 返回三字母月份缩写，无效月份返回空串
//
// 示例: 1 -> "Jan", 12 -> "Dec", 13 -> ""
func MonthLabel(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()[:3]
}
