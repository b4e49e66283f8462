package kpi

import (
	"strings"

	"github.com/BerniceZTT/supplier_kpi/models"
)

// IsFSCCertified 证书字段包含 "yes"、"valid" 或恰好为 "fsc" 时视为已认证
func IsFSCCertified(row models.Row) bool {
	v, _ := FSCCertificateField.First(row)
	cert := NormalizeText(v)
	if cert == "" {
		return false
	}
	return strings.Contains(cert, "yes") || cert == "fsc" || strings.Contains(cert, "valid")
}

func countCertified(rows []models.Row) int {
	count := 0
	for _, row := range rows {
		if IsFSCCertified(row) {
			count++
		}
	}
	return count
}

// FSCCertification 全局及各区域的认证百分比，各区域使用自身行数作分母
func FSCCertification(rows []models.Row, groups RegionGroups) models.FSCStats {
	stats := models.FSCStats{
		PercentGlobal:   percentOf(countCertified(rows), len(rows)),
		PercentByRegion: make(map[string]float64, len(groups)),
	}
	for _, group := range groups {
		stats.PercentByRegion[group.Region] = percentOf(countCertified(group.Rows), len(group.Rows))
	}
	return stats
}
