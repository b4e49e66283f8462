package kpi

import (
	"fmt"
	"math"
	"strings"

	"github.com/BerniceZTT/supplier_kpi/models"
)

// AbsentBucketLabel 缺少再生材料含量数据的行的分布标签
const AbsentBucketLabel = "undefined"

// BucketKind 分布标签的来源
type BucketKind int

const (
	BucketPercent BucketKind = iota // 可转换为百分比
	BucketLiteral                   // 无法转换，保留原文
	BucketAbsent                    // 单元格为空或列不存在
)

// BucketKey 再生材料含量分布的键
type BucketKey struct {
	Kind    BucketKind
	Percent int64
	Literal string
}

// Label 分布中使用的标签，如 "85%"、"N/A"、"undefined"
func (k BucketKey) Label() string {
	switch k.Kind {
	case BucketPercent:
		return fmt.Sprintf("%d%%", k.Percent)
	case BucketAbsent:
		return AbsentBucketLabel
	default:
		return k.Literal
	}
}

// RecycledContentBucket 单元格值对应的分布键
func RecycledContentBucket(v interface{}) BucketKey {
	if v == nil {
		return BucketKey{Kind: BucketAbsent}
	}
	if frac, ok := CoercePercentFraction(v); ok {
		return BucketKey{Kind: BucketPercent, Percent: int64(math.Floor(frac*100 + 0.5))}
	}
	return BucketKey{Kind: BucketLiteral, Literal: strings.TrimSpace(TextOf(v))}
}

// RecyclabilityStats 可回收性平均值及有效数据行数
func RecyclabilityStats(rows []models.Row) models.RecyclabilityStats {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		v, _ := RecyclabilityField.Present(row)
		if frac, ok := CoercePercentFraction(v); ok {
			values = append(values, frac)
		}
	}
	return models.RecyclabilityStats{
		GlobalAvg: average(values),
		DataCount: len(values),
	}
}

// RecycledContentStats 再生材料含量平均值及分布
// 平均值只统计可转换的值；分布覆盖所有行，空值与无法识别的值都有各自的桶
func RecycledContentStats(rows []models.Row) models.RecycledContentStats {
	stats := models.RecycledContentStats{
		Distribution: make(map[string]int),
	}

	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		v, _ := RecycledContentField.Present(row)
		if frac, ok := CoercePercentFraction(v); ok {
			values = append(values, frac)
		}
		stats.Distribution[RecycledContentBucket(v).Label()]++
	}
	stats.GlobalAvg = average(values)

	return stats
}
