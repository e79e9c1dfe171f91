package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/irfanshahuno/doctor-performance-app/internal/model"
)

// SummarySheetName 导出工作簿的 Sheet 名
const SummarySheetName = "Doctor_Month_Summary"

// summaryHeader 导出表头（列顺序固定）
var summaryHeader = []interface{}{
	"DocName", "Year", "MonthNum", "Month",
	"Visits", "Consultation", "Medicines", "Procedure", "Other",
	"Row_Total", "Avg_per_Visit",
}

// BuildWorkbook 将中心汇总序列化为可下载的工作簿
//
// 表头 + 数据行，数值与字符串类型无损写入。
func BuildWorkbook(summary *model.CenterSummary) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SummarySheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := f.SetSheetRow(SummarySheetName, "A1", &summaryHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range summary.Rows {
		row := []interface{}{
			r.DoctorName, r.Year, r.MonthNumber, r.MonthLabel,
			r.VisitCount, r.Consultation, r.Medicines, r.Procedure, r.Other,
			r.Total, r.AvgPerVisit,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(SummarySheetName, cell, &row); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteFile 导出中心汇总到指定路径
func WriteFile(summary *model.CenterSummary, path string) error {
	f, err := BuildWorkbook(summary)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
