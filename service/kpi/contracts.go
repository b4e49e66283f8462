package kpi

import (
	"strings"

	"github.com/BerniceZTT/supplier_kpi/models"
)

// ContractCounts 合同状态包含 "active" / "no contract" 的行数（子串匹配，可重复计数）
func ContractCounts(rows []models.Row) models.ContractStats {
	var stats models.ContractStats
	for _, row := range rows {
		v, _ := ContractStatusField.Present(row)
		status := NormalizeText(v)
		if strings.Contains(status, "active") {
			stats.ActiveCount++
		}
		if strings.Contains(status, "no contract") {
			stats.NoContractCount++
		}
	}
	return stats
}
