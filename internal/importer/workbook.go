package importer

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/irfanshahuno/doctor-performance-app/internal/model"
	"github.com/irfanshahuno/doctor-performance-app/internal/parser"
)

// SourceReadError 源文件读取失败（文件损坏或格式不支持）
//
// 对整次导入是致命的，不会写入任何部分状态。
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("failed to read source file %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error {
	return e.Err
}

// LoadFirstSheet 将工作簿的第一个 Sheet 读取为列名行集
//
// 引擎只消费内存中的表；工作簿格式细节（sheet 选择等）到此为止。
func LoadFirstSheet(path string) (*model.RawTable, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &SourceReadError{Path: path, Err: err}
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, &SourceReadError{Path: path, Err: fmt.Errorf("workbook has no sheets")}
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, &SourceReadError{Path: path, Err: err}
	}
	if len(rows) == 0 {
		return nil, &SourceReadError{Path: path, Err: fmt.Errorf("sheet %s is empty", sheets[0])}
	}

	columns := make([]string, len(rows[0]))
	for i, col := range rows[0] {
		columns[i] = parser.NormalizeColumnName(col)
	}

	return &model.RawTable{
		Columns: columns,
		Rows:    rows[1:],
	}, nil
}
