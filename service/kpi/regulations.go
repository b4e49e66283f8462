package kpi

import "github.com/BerniceZTT/supplier_kpi/models"

// UnknownRegulationValue 缺少类型或状态时的默认值
const UnknownRegulationValue = "Unknown"

// IndexRegulations 按司法辖区归集法规条目，保持行顺序，缺少辖区的行跳过
func IndexRegulations(rows []models.Row) map[string][]models.RegulationEntry {
	index := make(map[string][]models.RegulationEntry)
	for _, row := range rows {
		v, ok := JurisdictionField.First(row)
		if !ok {
			continue
		}
		jurisdiction := TextOf(v)
		index[jurisdiction] = append(index[jurisdiction], models.RegulationEntry{
			Type:   RegulationTypeField.TextOr(row, UnknownRegulationValue),
			Status: RegulationStatusField.TextOr(row, UnknownRegulationValue),
		})
	}
	return index
}
