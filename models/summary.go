package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// SummaryMeta 本次汇总实际使用的工作表名称
type SummaryMeta struct {
	MappingSheetName     string `json:"mappingSheetName"`
	RegulationsSheetName string `json:"regulationsSheetName"`
}

// PaymentTermDistribution 账期天数分布
type PaymentTermDistribution struct {
	UpTo30 int `json:"<=30"`
	UpTo60 int `json:"<=60"`
	Over60 int `json:">60"`
}

// Total 分布中的样本总数
func (d PaymentTermDistribution) Total() int {
	return d.UpTo30 + d.UpTo60 + d.Over60
}

// PaymentTermStats 账期统计
type PaymentTermStats struct {
	AvgDaysGlobal float64                 `json:"avgDaysGlobal"`
	Distribution  PaymentTermDistribution `json:"distribution"`
	AvgByRegion   map[string]float64      `json:"avgByRegion"`
}

// ContractStats 合同状态统计，两个计数互不排斥
type ContractStats struct {
	ActiveCount     int `json:"activeCount"`
	NoContractCount int `json:"noContractCount"`
}

// SupplierSpend 采购额排行项
type SupplierSpend struct {
	Name  string  `json:"name"`
	Spend float64 `json:"spend"`
}

// TopSuppliers 各年度采购额排行（全局 + 分区域）
// 序列化为 {"global2023": [...], "global2024": [...], "byRegion": {"EU": {"2023": [...]}}}
type TopSuppliers struct {
	Global   map[int][]SupplierSpend
	ByRegion map[string]map[int][]SupplierSpend
}

// MarshalJSON 按年份展开为固定路径的字段
func (t TopSuppliers) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(t.Global)+1)
	for year, list := range t.Global {
		out[fmt.Sprintf("global%d", year)] = list
	}

	byRegion := make(map[string]map[string][]SupplierSpend, len(t.ByRegion))
	for region, years := range t.ByRegion {
		perYear := make(map[string][]SupplierSpend, len(years))
		for year, list := range years {
			perYear[strconv.Itoa(year)] = list
		}
		byRegion[region] = perYear
	}
	out["byRegion"] = byRegion

	// 供应商名称中的 & < > 保持原样
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// RecyclabilityStats 可回收性统计
type RecyclabilityStats struct {
	GlobalAvg float64 `json:"globalAvg"`
	DataCount int     `json:"dataCount"` // 有效数据行数，非总行数
}

// RecycledContentStats 再生材料含量统计
type RecycledContentStats struct {
	GlobalAvg    float64        `json:"globalAvg"`
	Distribution map[string]int `json:"distribution"`
}

// FSCStats FSC认证比例（百分数）
type FSCStats struct {
	PercentGlobal   float64            `json:"percentGlobal"`
	PercentByRegion map[string]float64 `json:"percentByRegion"`
}

// RegulationEntry 法规条目
type RegulationEntry struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

// DataQualityIssue 单元格无法转换时记录的问题
type DataQualityIssue struct {
	Row    int         `json:"row"` // 数据行序号，从1开始，不含表头
	Field  string      `json:"field"`
	Value  interface{} `json:"value"`
	Reason string      `json:"reason"`
}

// KPISummary 上传工作簿后生成的KPI汇总文档
type KPISummary struct {
	Meta              SummaryMeta                  `json:"meta"`
	Warnings          []string                     `json:"warnings"`
	TotalSuppliers    int                          `json:"totalSuppliers"`
	SuppliersByRegion map[string]int               `json:"suppliersByRegion"`
	PaymentTerms      PaymentTermStats             `json:"paymentTerms"`
	Contracts         ContractStats                `json:"contracts"`
	TopSuppliers      TopSuppliers                 `json:"topSuppliers"`
	Recyclability     RecyclabilityStats           `json:"recyclability"`
	RecycledContent   RecycledContentStats         `json:"recycledContent"`
	FSCCertification  FSCStats                     `json:"fscCertification"`
	Regulations       map[string][]RegulationEntry `json:"regulations"`
	DataQuality       []DataQualityIssue           `json:"dataQuality,omitempty"`
}
