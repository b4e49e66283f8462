package kpi

import "github.com/BerniceZTT/supplier_kpi/models"

// CoercionPolicy 单元格转换失败时的处理策略
type CoercionPolicy string

const (
	// PolicySkip 静默跳过，仅从对应指标中剔除该行
	PolicySkip CoercionPolicy = "skip"
	// PolicyReport 同样剔除，但在汇总的 dataQuality 中列出
	PolicyReport CoercionPolicy = "report"
)

// ParseCoercionPolicy 未识别的值按 skip 处理
func ParseCoercionPolicy(s string) CoercionPolicy {
	if CoercionPolicy(s) == PolicyReport {
		return PolicyReport
	}
	return PolicySkip
}

const (
	reasonNotNumber  = "not a number"
	reasonNotPercent = "not a percentage"
)

type qualityCheck struct {
	field   Field
	reason  string
	convert func(interface{}) bool
}

func numberCheck(f Field) qualityCheck {
	return qualityCheck{field: f, reason: reasonNotNumber, convert: func(v interface{}) bool {
		_, ok := CoerceNumber(v)
		return ok
	}}
}

func percentCheck(f Field) qualityCheck {
	return qualityCheck{field: f, reason: reasonNotPercent, convert: func(v interface{}) bool {
		_, ok := CoercePercentFraction(v)
		return ok
	}}
}

func spendCheck(f Field) qualityCheck {
	return qualityCheck{field: f, reason: reasonNotNumber, convert: func(v interface{}) bool {
		_, ok := nativeNumber(v)
		return ok
	}}
}

// CollectIssues 列出所有有值但无法转换的单元格；空单元格不算问题
func CollectIssues(rows []models.Row, spendYears []int) []models.DataQualityIssue {
	checks := []qualityCheck{
		numberCheck(PaymentTermDaysField),
		percentCheck(RecyclabilityField),
		percentCheck(RecycledContentField),
	}
	for _, year := range spendYears {
		checks = append(checks, spendCheck(SpendField(year)))
	}

	issues := make([]models.DataQualityIssue, 0)
	for i, row := range rows {
		for _, check := range checks {
			v, _ := check.field.Present(row)
			if v == nil || check.convert(v) {
				continue
			}
			issues = append(issues, models.DataQualityIssue{
				Row:    i + 1,
				Field:  check.field.Name,
				Value:  v,
				Reason: check.reason,
			})
		}
	}
	return issues
}
