package kpi

import "github.com/BerniceZTT/supplier_kpi/models"

// paymentTermDays 所有可转换的账期天数
func paymentTermDays(rows []models.Row) []float64 {
	days := make([]float64, 0, len(rows))
	for _, row := range rows {
		v, _ := PaymentTermDaysField.Present(row)
		if d, ok := CoerceNumber(v); ok {
			days = append(days, d)
		}
	}
	return days
}

// AveragePaymentTerm 平均账期天数，无数据时为0
func AveragePaymentTerm(rows []models.Row) float64 {
	return average(paymentTermDays(rows))
}

// CountByPaymentTerm 账期分布：<=30、(30,60]、>60，无法转换的值不计入任何区间
func CountByPaymentTerm(rows []models.Row) models.PaymentTermDistribution {
	var dist models.PaymentTermDistribution
	for _, d := range paymentTermDays(rows) {
		switch {
		case d <= 30:
			dist.UpTo30++
		case d <= 60:
			dist.UpTo60++
		default:
			dist.Over60++
		}
	}
	return dist
}

// PaymentTerms 全局平均、分布以及各区域平均账期
func PaymentTerms(rows []models.Row, groups RegionGroups) models.PaymentTermStats {
	stats := models.PaymentTermStats{
		AvgDaysGlobal: AveragePaymentTerm(rows),
		Distribution:  CountByPaymentTerm(rows),
		AvgByRegion:   make(map[string]float64, len(groups)),
	}
	for _, group := range groups {
		stats.AvgByRegion[group.Region] = AveragePaymentTerm(group.Rows)
	}
	return stats
}
