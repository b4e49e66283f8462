// Package kpi 把工作表行数据归一化并汇总为供应商KPI文档
package kpi

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// 百分数判定阈值：大于该值按 0-100 处理，恰好为1仍视为100%
const percentScaleThreshold = 1.00001

var numberPattern = regexp.MustCompile(`-?\d+(\.\d+)?`)

// nativeNumber 仅接受原生数值类型（NaN除外）
func nativeNumber(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// CoerceNumber 把单元格值转换为数值
// 字符串会先去掉千分位逗号，再取第一个数字片段，如 "1,234.56 USD" -> 1234.56
func CoerceNumber(v interface{}) (float64, bool) {
	if f, ok := nativeNumber(v); ok {
		return f, true
	}

	s, ok := v.(string)
	if !ok {
		return 0, false
	}

	match := numberPattern.FindString(strings.ReplaceAll(s, ",", ""))
	if match == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// CoercePercentFraction 把百分比转换为 0-1 之间的小数
// 表格里 "85" 与 "0.85" 混用，大于阈值的按百分数除以100，负数视为无效
func CoercePercentFraction(v interface{}) (float64, bool) {
	n, ok := CoerceNumber(v)
	if !ok {
		return 0, false
	}
	if n > percentScaleThreshold {
		return n / 100.0, true
	}
	if n < 0 {
		return 0, false
	}
	return n, true
}

// TextOf 单元格值的字符串形式，nil 为空串
func TextOf(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	}
	if f, ok := nativeNumber(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if f, ok := v.(float64); ok && math.IsNaN(f) {
		return "NaN"
	}
	return ""
}

// Truthy 判断单元格是否有值：空串、0、false、NaN、nil 都视为无值
func Truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	}
	if f, ok := nativeNumber(v); ok {
		return f != 0
	}
	return false
}

// NormalizeText 去除首尾空白并转小写，用于不区分大小写的文本匹配
func NormalizeText(v interface{}) string {
	if !Truthy(v) {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(TextOf(v)))
}

// average 空集合的平均值定义为0
func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// percentOf 百分比，分母为0时返回0
func percentOf(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
