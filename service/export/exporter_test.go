package export_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/supplier_kpi/models"
	"github.com/BerniceZTT/supplier_kpi/service/export"
	"github.com/BerniceZTT/supplier_kpi/service/kpi"
	"github.com/BerniceZTT/supplier_kpi/service/workbook"
)

func sampleSummary() *models.KPISummary {
	rows := []models.Row{
		{"Region": "EU", "Supplier": "Alpha", "PT Days": 20.0, "2024 Spend": 100.0, "Recycled content %": 0.5, "FSC": "yes"},
		{"Region": "NA", "Supplier": "Beta", "PT Days": "later", "2023 Spend": 70.0, "Recycled content %": nil},
	}
	regulations := []models.Row{
		{"Country": "France", "Type": "EPR", "Status": "In force"},
	}
	opts := kpi.DefaultOptions()
	opts.Policy = kpi.PolicyReport
	return kpi.Summarize(rows, regulations, true, opts)
}

func TestExportRoundTrip(t *testing.T) {
	f, err := export.NewExporter().Export(sampleSummary())
	require.NoError(t, err)
	defer f.Close()

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	wb, err := workbook.Open(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{
		export.SummarySheet,
		export.RegionsSheet,
		export.TopSuppliersSheet,
		export.RecycledContentSheet,
		export.RegulationsSheet,
		export.DataQualitySheet,
	}, wb.SheetNames())

	summaryRows, found, err := wb.Rows(export.SummarySheet)
	require.NoError(t, err)
	require.True(t, found)
	metrics := make(map[string]interface{})
	for _, r := range summaryRows {
		metrics[r["Metric"].(string)] = r["Value"]
	}
	assert.Equal(t, 2.0, metrics["Total suppliers"])
	assert.Equal(t, 20.0, metrics["Average payment term (days)"])
	assert.Equal(t, 50.0, metrics["FSC certified %"])

	regions, _, err := wb.Rows(export.RegionsSheet)
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, "EU", regions[0]["Region"])
	assert.Equal(t, 1.0, regions[0]["Suppliers"])

	top, _, err := wb.Rows(export.TopSuppliersSheet)
	require.NoError(t, err)
	require.Len(t, top, 4)
	assert.Equal(t, "Global", top[0]["Scope"])
	assert.Equal(t, "2023", top[0]["Year"])
	assert.Equal(t, "Beta", top[0]["Supplier"])

	regs, _, err := wb.Rows(export.RegulationsSheet)
	require.NoError(t, err)
	assert.Equal(t, []models.Row{{"Jurisdiction": "France", "Type": "EPR", "Status": "In force"}}, regs)

	issues, _, err := wb.Rows(export.DataQualitySheet)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "later", issues[0]["Value"])
}

func TestExportWithoutIssuesOrWarnings(t *testing.T) {
	summary := kpi.Summarize(nil, nil, false, kpi.DefaultOptions())

	f, err := export.NewExporter().Export(summary)
	require.NoError(t, err)
	defer f.Close()

	assert.NotContains(t, f.GetSheetList(), export.DataQualitySheet)
	assert.Equal(t, export.SummarySheet, f.GetSheetName(0))
}

func TestExportNilSummary(t *testing.T) {
	_, err := export.NewExporter().Export(nil)
	assert.Error(t, err)
}

func TestExportSetsColumnWidths(t *testing.T) {
	f, err := export.NewExporter().Export(sampleSummary())
	require.NoError(t, err)
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		for _, col := range []string{"A", "E"} {
			width, err := f.GetColWidth(sheet, col)
			require.NoError(t, err)
			assert.Equal(t, 22.0, width, "%s!%s", sheet, col)
		}
	}
}
