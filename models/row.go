package models

// Row 工作表中的一行数据：列名 -> 单元格值
// 单元格值只可能是 float64、string、bool 或 nil（空单元格）
type Row map[string]interface{}

// Get 按列名取值，列不存在时 ok 为 false
func (r Row) Get(column string) (interface{}, bool) {
	v, ok := r[column]
	return v, ok
}
