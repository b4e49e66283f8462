package kpi

import (
	"errors"
	"fmt"

	"github.com/BerniceZTT/supplier_kpi/models"
)

const (
	// DefaultMappingSheetName 供应商映射表默认名称（必需）
	DefaultMappingSheetName = "Mapping Corrugates"
	// DefaultRegulationsSheetName 法规表默认名称（可选）
	DefaultRegulationsSheetName = "Global_Packaging_Regulations"
)

// ErrSheetNotFound 必需的工作表不存在
var ErrSheetNotFound = errors.New("sheet not found")

// SheetNotFoundError 带工作表名称的缺表错误，errors.Is(err, ErrSheetNotFound) 成立
type SheetNotFoundError struct {
	Sheet string
}

func (e *SheetNotFoundError) Error() string {
	return "Sheet \"" + e.Sheet + "\" not found"
}

// Is 支持 errors.Is 匹配 ErrSheetNotFound
func (e *SheetNotFoundError) Is(target error) bool {
	return target == ErrSheetNotFound
}

// SheetSource 已解析的工作簿，found 为 false 表示工作表不存在
type SheetSource interface {
	Rows(sheetName string) (rows []models.Row, found bool, err error)
}

// Options 汇总参数
type Options struct {
	MappingSheetName     string
	RegulationsSheetName string
	TopN                 int
	SpendYears           []int
	Policy               CoercionPolicy
}

// DefaultOptions 默认参数
func DefaultOptions() Options {
	return Options{
		MappingSheetName:     DefaultMappingSheetName,
		RegulationsSheetName: DefaultRegulationsSheetName,
		TopN:                 DefaultTopN,
		SpendYears:           append([]int(nil), DefaultSpendYears...),
		Policy:               PolicySkip,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MappingSheetName == "" {
		o.MappingSheetName = d.MappingSheetName
	}
	if o.RegulationsSheetName == "" {
		o.RegulationsSheetName = d.RegulationsSheetName
	}
	if o.TopN <= 0 {
		o.TopN = d.TopN
	}
	if len(o.SpendYears) == 0 {
		o.SpendYears = d.SpendYears
	}
	if o.Policy == "" {
		o.Policy = d.Policy
	}
	return o
}

// MissingSheetWarning 可选工作表缺失时的提示
func MissingSheetWarning(sheet string) string {
	return fmt.Sprintf("Sheet \"%s\" not found. Regulations section will be empty.", sheet)
}

// Build 从工作簿读取两张表并生成汇总
// 映射表缺失返回 SheetNotFoundError；法规表缺失只记录警告
func Build(src SheetSource, opts Options) (*models.KPISummary, error) {
	opts = opts.withDefaults()

	mapping, found, err := src.Rows(opts.MappingSheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", opts.MappingSheetName, err)
	}
	if !found {
		return nil, &SheetNotFoundError{Sheet: opts.MappingSheetName}
	}

	regulations, regulationsFound, err := src.Rows(opts.RegulationsSheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", opts.RegulationsSheetName, err)
	}

	return Summarize(mapping, regulations, regulationsFound, opts), nil
}

// Summarize 由已解析的行生成汇总，不做任何I/O
func Summarize(mapping, regulations []models.Row, regulationsFound bool, opts Options) *models.KPISummary {
	opts = opts.withDefaults()
	groups := GroupByRegion(mapping)

	summary := &models.KPISummary{
		Meta: models.SummaryMeta{
			MappingSheetName:     opts.MappingSheetName,
			RegulationsSheetName: opts.RegulationsSheetName,
		},
		Warnings:          make([]string, 0),
		TotalSuppliers:    len(mapping),
		SuppliersByRegion: groups.Counts(),
		PaymentTerms:      PaymentTerms(mapping, groups),
		Contracts:         ContractCounts(mapping),
		TopSuppliers:      TopSuppliers(mapping, groups, opts.SpendYears, opts.TopN),
		Recyclability:     RecyclabilityStats(mapping),
		RecycledContent:   RecycledContentStats(mapping),
		FSCCertification:  FSCCertification(mapping, groups),
		Regulations:       make(map[string][]models.RegulationEntry),
	}

	if regulationsFound {
		summary.Regulations = IndexRegulations(regulations)
	} else {
		summary.Warnings = append(summary.Warnings, MissingSheetWarning(opts.RegulationsSheetName))
	}

	if opts.Policy == PolicyReport {
		summary.DataQuality = CollectIssues(mapping, opts.SpendYears)
	}

	return summary
}
