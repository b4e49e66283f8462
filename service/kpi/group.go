package kpi

import "github.com/BerniceZTT/supplier_kpi/models"

// UnspecifiedRegion 缺少区域的行归入此分组
const UnspecifiedRegion = "Unspecified"

// RegionGroup 同一区域的行，保持原始顺序
type RegionGroup struct {
	Region string
	Rows   []models.Row
}

// RegionGroups 按区域首次出现顺序排列的分组
type RegionGroups []RegionGroup

// RegionOf 行的区域标签，原样使用不做大小写或空白处理
func RegionOf(row models.Row) string {
	if v, ok := RegionField.First(row); ok {
		return TextOf(v)
	}
	return UnspecifiedRegion
}

// GroupByRegion 一次遍历把行划分到各区域
func GroupByRegion(rows []models.Row) RegionGroups {
	index := make(map[string]int)
	groups := make(RegionGroups, 0)

	for _, row := range rows {
		region := RegionOf(row)
		i, ok := index[region]
		if !ok {
			i = len(groups)
			index[region] = i
			groups = append(groups, RegionGroup{Region: region})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}

	return groups
}

// Counts 各区域行数
func (g RegionGroups) Counts() map[string]int {
	counts := make(map[string]int, len(g))
	for _, group := range g {
		counts[group.Region] = len(group.Rows)
	}
	return counts
}
