package kpi

import (
	"sort"

	"github.com/BerniceZTT/supplier_kpi/models"
)

// DefaultTopN 默认排行数量
const DefaultTopN = 10

// UnknownSupplier 找不到供应商名称时的显示名
const UnknownSupplier = "Unknown"

// DefaultSpendYears 默认统计的采购年度
var DefaultSpendYears = []int{2023, 2024}

type rankedRow struct {
	row   models.Row
	spend float64
}

// TopNByKey 按采购额降序取前 n 个供应商
// 只有原生数值的采购额参与排行，文本数字、空值都被忽略而不是当作0；同额保持原顺序
func TopNByKey(rows []models.Row, spend Field, n int) []models.SupplierSpend {
	if n <= 0 {
		n = DefaultTopN
	}

	ranked := make([]rankedRow, 0, len(rows))
	for _, row := range rows {
		v, _ := spend.Present(row)
		if s, ok := nativeNumber(v); ok {
			ranked = append(ranked, rankedRow{row: row, spend: s})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].spend > ranked[j].spend
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	result := make([]models.SupplierSpend, 0, len(ranked))
	for _, r := range ranked {
		result = append(result, models.SupplierSpend{
			Name:  SupplierNameField.TextOr(r.row, UnknownSupplier),
			Spend: r.spend,
		})
	}
	return result
}

// TopSuppliers 每个年度分别计算全局与各区域排行
func TopSuppliers(rows []models.Row, groups RegionGroups, years []int, n int) models.TopSuppliers {
	if len(years) == 0 {
		years = DefaultSpendYears
	}

	top := models.TopSuppliers{
		Global:   make(map[int][]models.SupplierSpend, len(years)),
		ByRegion: make(map[string]map[int][]models.SupplierSpend, len(groups)),
	}

	for _, year := range years {
		top.Global[year] = TopNByKey(rows, SpendField(year), n)
	}

	for _, group := range groups {
		perYear := make(map[int][]models.SupplierSpend, len(years))
		for _, year := range years {
			perYear[year] = TopNByKey(group.Rows, SpendField(year), n)
		}
		top.ByRegion[group.Region] = perYear
	}

	return top
}
