package kpi

import (
	"fmt"

	"github.com/BerniceZTT/supplier_kpi/models"
)

// Field 逻辑字段：按优先级排列的可接受列名，区分大小写
type Field struct {
	Name    string
	Aliases []string
}

var (
	RegionField          = Field{Name: "region", Aliases: []string{"Region"}}
	SupplierNameField    = Field{Name: "supplierName", Aliases: []string{"Supplier", "Supplier Name", "Parent supplier"}}
	PaymentTermDaysField = Field{Name: "paymentTermDays", Aliases: []string{"PT Days"}}
	ContractStatusField  = Field{Name: "contractStatus", Aliases: []string{"Contract status"}}
	RecyclabilityField   = Field{Name: "recyclability", Aliases: []string{"Recyclability %"}}
	RecycledContentField = Field{Name: "recycledContent", Aliases: []string{
		"Recycled materia contentl %",
		"Recycled content %",
		"Recycled material content %",
	}}
	FSCCertificateField = Field{Name: "fscCertificate", Aliases: []string{"FSC Certificate/ Equivalent", "FSC Certificate", "FSC"}}

	JurisdictionField     = Field{Name: "jurisdiction", Aliases: []string{"Jurisdiction", "Country", "JURISDICTION"}}
	RegulationTypeField   = Field{Name: "regulationType", Aliases: []string{"Type (EPR / SUP / DRS / Tax / Design)", "Type", "RegType"}}
	RegulationStatusField = Field{Name: "regulationStatus", Aliases: []string{"Status", "RegStatus"}}
)

// SpendField 某年度采购额字段，列名形如 "2024 Spend"
func SpendField(year int) Field {
	return Field{
		Name:    fmt.Sprintf("spend%d", year),
		Aliases: []string{fmt.Sprintf("%d Spend", year)},
	}
}

// First 返回第一个有值的别名列
func (f Field) First(row models.Row) (interface{}, bool) {
	for _, alias := range f.Aliases {
		if v, ok := row.Get(alias); ok && Truthy(v) {
			return v, true
		}
	}
	return nil, false
}

// Present 返回第一个存在的别名列的值，列存在但为空时 value 为 nil
func (f Field) Present(row models.Row) (interface{}, bool) {
	for _, alias := range f.Aliases {
		if v, ok := row.Get(alias); ok {
			return v, true
		}
	}
	return nil, false
}

// TextOr 第一个有值别名列的字符串形式，都没有时返回 fallback
func (f Field) TextOr(row models.Row, fallback string) string {
	if v, ok := f.First(row); ok {
		return TextOf(v)
	}
	return fallback
}
