package export

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/BerniceZTT/supplier_kpi/models"
)

// 导出工作簿中的工作表名称
const (
	SummarySheet         = "Summary"
	RegionsSheet         = "Regions"
	TopSuppliersSheet    = "Top Suppliers"
	RecycledContentSheet = "Recycled Content"
	RegulationsSheet     = "Regulations"
	DataQualitySheet     = "Data Quality"
)

// Exporter 把KPI汇总写成Excel工作簿
type Exporter struct{}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export 生成工作簿，调用方负责 Close
func (e *Exporter) Export(summary *models.KPISummary) (*excelize.File, error) {
	if summary == nil {
		return nil, errors.New("nil summary")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	sheets := []struct {
		name string
		rows [][]interface{}
	}{
		{SummarySheet, summaryRows(summary)},
		{RegionsSheet, regionRows(summary)},
		{TopSuppliersSheet, topSupplierRows(summary)},
		{RecycledContentSheet, recycledContentRows(summary)},
		{RegulationsSheet, regulationRows(summary)},
	}
	if len(summary.DataQuality) > 0 {
		sheets = append(sheets, struct {
			name string
			rows [][]interface{}
		}{DataQualitySheet, dataQualityRows(summary)})
	}

	for _, s := range sheets {
		if s.name != SummarySheet {
			if _, err := f.NewSheet(s.name); err != nil {
				f.Close()
				return nil, fmt.Errorf("create sheet %s: %w", s.name, err)
			}
		}
		if err := writeRows(f, s.name, s.rows); err != nil {
			f.Close()
			return nil, fmt.Errorf("write sheet %s: %w", s.name, err)
		}
		if err := f.SetRowStyle(s.name, 1, 1, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetColWidth(s.name, "A", "E", 22); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return err
		}
	}
	return nil
}

func summaryRows(s *models.KPISummary) [][]interface{} {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Mapping sheet", s.Meta.MappingSheetName},
		{"Regulations sheet", s.Meta.RegulationsSheetName},
		{"Total suppliers", s.TotalSuppliers},
		{"Average payment term (days)", s.PaymentTerms.AvgDaysGlobal},
		{"Payment term <=30", s.PaymentTerms.Distribution.UpTo30},
		{"Payment term <=60", s.PaymentTerms.Distribution.UpTo60},
		{"Payment term >60", s.PaymentTerms.Distribution.Over60},
		{"Active contracts", s.Contracts.ActiveCount},
		{"No contract", s.Contracts.NoContractCount},
		{"Recyclability average", s.Recyclability.GlobalAvg},
		{"Recyclability data rows", s.Recyclability.DataCount},
		{"Recycled content average", s.RecycledContent.GlobalAvg},
		{"FSC certified %", s.FSCCertification.PercentGlobal},
	}
	for _, w := range s.Warnings {
		rows = append(rows, []interface{}{"Warning", w})
	}
	return rows
}

func regionRows(s *models.KPISummary) [][]interface{} {
	rows := [][]interface{}{{"Region", "Suppliers", "Avg payment term (days)", "FSC certified %"}}
	for _, region := range sortedKeys(s.SuppliersByRegion) {
		rows = append(rows, []interface{}{
			region,
			s.SuppliersByRegion[region],
			s.PaymentTerms.AvgByRegion[region],
			s.FSCCertification.PercentByRegion[region],
		})
	}
	return rows
}

func topSupplierRows(s *models.KPISummary) [][]interface{} {
	rows := [][]interface{}{{"Scope", "Year", "Rank", "Supplier", "Spend"}}

	years := make([]int, 0, len(s.TopSuppliers.Global))
	for year := range s.TopSuppliers.Global {
		years = append(years, year)
	}
	sort.Ints(years)

	appendList := func(scope string, year int, list []models.SupplierSpend) {
		for i, item := range list {
			rows = append(rows, []interface{}{scope, strconv.Itoa(year), i + 1, item.Name, item.Spend})
		}
	}

	for _, year := range years {
		appendList("Global", year, s.TopSuppliers.Global[year])
	}
	regions := make([]string, 0, len(s.TopSuppliers.ByRegion))
	for region := range s.TopSuppliers.ByRegion {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	for _, region := range regions {
		for _, year := range years {
			appendList(region, year, s.TopSuppliers.ByRegion[region][year])
		}
	}
	return rows
}

func recycledContentRows(s *models.KPISummary) [][]interface{} {
	rows := [][]interface{}{{"Recycled content", "Suppliers"}}
	for _, label := range sortedKeys(s.RecycledContent.Distribution) {
		rows = append(rows, []interface{}{label, s.RecycledContent.Distribution[label]})
	}
	return rows
}

func regulationRows(s *models.KPISummary) [][]interface{} {
	rows := [][]interface{}{{"Jurisdiction", "Type", "Status"}}
	jurisdictions := make([]string, 0, len(s.Regulations))
	for j := range s.Regulations {
		jurisdictions = append(jurisdictions, j)
	}
	sort.Strings(jurisdictions)
	for _, j := range jurisdictions {
		for _, entry := range s.Regulations[j] {
			rows = append(rows, []interface{}{j, entry.Type, entry.Status})
		}
	}
	return rows
}

func dataQualityRows(s *models.KPISummary) [][]interface{} {
	rows := [][]interface{}{{"Row", "Field", "Value", "Reason"}}
	for _, issue := range s.DataQuality {
		rows = append(rows, []interface{}{issue.Row, issue.Field, fmt.Sprint(issue.Value), issue.Reason})
	}
	return rows
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
