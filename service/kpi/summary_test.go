package kpi

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/supplier_kpi/models"
)

type fakeSource struct {
	sheets map[string][]models.Row
	err    error
}

func (f fakeSource) Rows(name string) ([]models.Row, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	rows, ok := f.sheets[name]
	return rows, ok, nil
}

func scenarioRows() []models.Row {
	return []models.Row{
		{"Region": "EU", "Supplier": "Alpha", "PT Days": 20.0, "Contract status": "Active", "2024 Spend": 100.0},
		{"Region": "EU", "Supplier": "Beta", "PT Days": 45.0, "Contract status": "No Contract", "2024 Spend": 200.0},
		{"Region": "NA", "Supplier": "Gamma", "PT Days": 90.0, "Contract status": "active - ext", "2024 Spend": 50.0},
	}
}

func TestBuildScenario(t *testing.T) {
	src := fakeSource{sheets: map[string][]models.Row{
		DefaultMappingSheetName: scenarioRows(),
		DefaultRegulationsSheetName: {
			{"Jurisdiction": "France", "Type": "EPR", "Status": "In force"},
		},
	}}

	summary, err := Build(src, Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalSuppliers)
	assert.Equal(t, map[string]int{"EU": 2, "NA": 1}, summary.SuppliersByRegion)
	assert.InDelta(t, 155.0/3, summary.PaymentTerms.AvgDaysGlobal, 1e-9)
	assert.Equal(t, models.PaymentTermDistribution{UpTo30: 1, UpTo60: 1, Over60: 1}, summary.PaymentTerms.Distribution)
	assert.Equal(t, models.ContractStats{ActiveCount: 2, NoContractCount: 1}, summary.Contracts)

	global2024 := summary.TopSuppliers.Global[2024]
	require.Len(t, global2024, 3)
	assert.Equal(t, []float64{200, 100, 50}, []float64{global2024[0].Spend, global2024[1].Spend, global2024[2].Spend})
	assert.Equal(t, "Beta", global2024[0].Name)
	assert.Empty(t, summary.TopSuppliers.Global[2023])

	assert.Empty(t, summary.Warnings)
	assert.Len(t, summary.Regulations["France"], 1)
	assert.Equal(t, models.SummaryMeta{
		MappingSheetName:     DefaultMappingSheetName,
		RegulationsSheetName: DefaultRegulationsSheetName,
	}, summary.Meta)
	assert.Nil(t, summary.DataQuality)
}

func TestBuildMissingMappingSheet(t *testing.T) {
	src := fakeSource{sheets: map[string][]models.Row{}}

	summary, err := Build(src, Options{MappingSheetName: "Suppliers"})

	require.Error(t, err)
	assert.Nil(t, summary)
	assert.True(t, errors.Is(err, ErrSheetNotFound))
	assert.Equal(t, `Sheet "Suppliers" not found`, err.Error())
}

func TestBuildMissingRegulationsSheet(t *testing.T) {
	src := fakeSource{sheets: map[string][]models.Row{"Suppliers": scenarioRows()}}

	summary, err := Build(src, Options{MappingSheetName: "Suppliers", RegulationsSheetName: "Regs"})
	require.NoError(t, err)

	require.Len(t, summary.Warnings, 1)
	assert.Contains(t, summary.Warnings[0], `"Regs"`)
	assert.Equal(t, `Sheet "Regs" not found. Regulations section will be empty.`, summary.Warnings[0])
	assert.Empty(t, summary.Regulations)
	assert.NotNil(t, summary.Regulations)
	assert.Equal(t, "Regs", summary.Meta.RegulationsSheetName)
}

func TestBuildPropagatesSourceErrors(t *testing.T) {
	boom := errors.New("corrupt sheet")

	_, err := Build(fakeSource{err: boom}, DefaultOptions())

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, ErrSheetNotFound))
}

func TestSummarizeReportPolicy(t *testing.T) {
	rows := []models.Row{{"PT Days": "soon"}, {"PT Days": 10.0}}

	skipped := Summarize(rows, nil, true, DefaultOptions())
	assert.Nil(t, skipped.DataQuality)

	opts := DefaultOptions()
	opts.Policy = PolicyReport
	reported := Summarize(rows, nil, true, opts)
	require.Len(t, reported.DataQuality, 1)
	assert.Equal(t, 1, reported.DataQuality[0].Row)
	assert.Equal(t, 10.0, reported.PaymentTerms.AvgDaysGlobal)
}

func TestSummarizeEmptyMapping(t *testing.T) {
	summary := Summarize([]models.Row{}, []models.Row{}, true, DefaultOptions())

	assert.Equal(t, 0, summary.TotalSuppliers)
	assert.Empty(t, summary.SuppliersByRegion)
	assert.Equal(t, 0.0, summary.PaymentTerms.AvgDaysGlobal)
	assert.Equal(t, 0.0, summary.Recyclability.GlobalAvg)
	assert.Equal(t, 0, summary.Recyclability.DataCount)
	assert.Equal(t, 0.0, summary.FSCCertification.PercentGlobal)
	assert.Empty(t, summary.RecycledContent.Distribution)
}

func TestSummaryJSONShape(t *testing.T) {
	summary := Summarize(scenarioRows(), nil, false, DefaultOptions())

	raw, err := json.Marshal(summary)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))

	dist := doc["paymentTerms"].(map[string]interface{})["distribution"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"<=30": 1.0, "<=60": 1.0, ">60": 1.0}, dist)

	top := doc["topSuppliers"].(map[string]interface{})
	assert.Len(t, top["global2024"], 3)
	assert.Equal(t, []interface{}{}, top["global2023"])
	eu := top["byRegion"].(map[string]interface{})["EU"].(map[string]interface{})
	assert.Len(t, eu["2024"], 2)

	assert.Equal(t, []interface{}{MissingSheetWarning(DefaultRegulationsSheetName)}, doc["warnings"])
	assert.Equal(t, map[string]interface{}{}, doc["regulations"])
	assert.NotContains(t, doc, "dataQuality")
	assert.Equal(t, map[string]interface{}{"undefined": 3.0}, doc["recycledContent"].(map[string]interface{})["distribution"])
}
