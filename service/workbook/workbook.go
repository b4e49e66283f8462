package workbook

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/BerniceZTT/supplier_kpi/models"
)

// emptyHeader 表头为空的列使用的列名前缀
const emptyHeader = "__EMPTY"

// Workbook 上传的Excel工作簿（只读）
type Workbook struct {
	file *excelize.File
	id   string
}

// Open 从读取器加载工作簿
func Open(r io.Reader) (*Workbook, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return &Workbook{file: file, id: uuid.New().String()}, nil
}

// ID 本次上传的工作簿标识
func (w *Workbook) ID() string {
	return w.id
}

// Close 释放临时文件
func (w *Workbook) Close() error {
	if w.file == nil {
		return nil
	}
	return w.file.Close()
}

// SheetNames 工作表名称列表
func (w *Workbook) SheetNames() []string {
	if w.file == nil {
		return []string{}
	}
	return w.file.GetSheetList()
}

// HasSheet 名称区分大小写
func (w *Workbook) HasSheet(name string) bool {
	for _, s := range w.SheetNames() {
		if s == name {
			return true
		}
	}
	return false
}

// Rows 读取工作表，第一行非空行作为表头
// 每一行都包含全部表头列，空单元格为 nil；全空的行被跳过
func (w *Workbook) Rows(name string) ([]models.Row, bool, error) {
	if w.file == nil {
		return nil, false, errors.New("no workbook loaded")
	}
	if !w.HasSheet(name) {
		return nil, false, nil
	}

	grid, err := w.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, true, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}

	headerIdx := -1
	width := 0
	for i, cells := range grid {
		if headerIdx < 0 && !blank(cells) {
			headerIdx = i
		}
		if len(cells) > width {
			width = len(cells)
		}
	}

	rows := make([]models.Row, 0)
	if headerIdx < 0 {
		return rows, true, nil
	}

	keys := headerKeys(grid[headerIdx], width)
	for i := headerIdx + 1; i < len(grid); i++ {
		cells := grid[i]
		if blank(cells) {
			continue
		}

		row := make(models.Row, len(keys))
		for col, key := range keys {
			if col >= len(cells) || cells[col] == "" {
				row[key] = nil
				continue
			}
			v, err := w.cellValue(name, col, i, cells[col])
			if err != nil {
				return nil, true, err
			}
			row[key] = v
		}
		rows = append(rows, row)
	}

	return rows, true, nil
}

// cellValue 按单元格类型还原数值、布尔与文本
func (w *Workbook) cellValue(sheet string, col, row int, raw string) (interface{}, error) {
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return nil, err
	}
	cellType, err := w.file.GetCellType(sheet, axis)
	if err != nil {
		return nil, fmt.Errorf("failed to read cell %s!%s: %w", sheet, axis, err)
	}

	switch cellType {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f, nil
		}
	}
	return raw, nil
}

// headerKeys 空表头依次命名为 __EMPTY、__EMPTY_1 ...，重复表头追加 _1、_2
func headerKeys(header []string, width int) []string {
	keys := make([]string, width)
	used := make(map[string]bool, width)
	counters := make(map[string]int)

	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = header[i]
		}
		if name == "" {
			name = emptyHeader
		}

		key := name
		for used[key] {
			counters[name]++
			key = name + "_" + strconv.Itoa(counters[name])
		}
		used[key] = true
		keys[i] = key
	}

	return keys
}

func blank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
