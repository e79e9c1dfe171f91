package importer

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/irfanshahuno/doctor-performance-app/internal/parser"
	"github.com/irfanshahuno/doctor-performance-app/internal/service/center"
	"github.com/irfanshahuno/doctor-performance-app/internal/store"
)

func newTestCenters(t *testing.T) *center.Store {
	t.Helper()
	db, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return center.NewStore(db)
}

// writeWorkbook 生成测试用的就诊明细工作簿
func writeWorkbook(t *testing.T, header []interface{}, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow("Sheet1", "A1", &header); err != nil {
		t.Fatalf("write header failed: %v", err)
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow("Sheet1", cell, &rows[i]); err != nil {
			t.Fatalf("write row failed: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "visits.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook failed: %v", err)
	}
	return path
}

// TestIngestFile 完整导入流水线：读文件 -> 聚合 -> 落库
func TestIngestFile(t *testing.T) {
	centers := newTestCenters(t)
	coordinator := NewCoordinator(centers)

	path := writeWorkbook(t,
		[]interface{}{"VisitNo", "VisitDate", "DocName", "Item Group", "ActivityIns"},
		[][]interface{}{
			{"V1", "2024-01-05", "Dr A", "Consultation", 100},
			{"V1", "2024-01-05", "Dr A", "Tablet", 50},
			{"V2", "not-a-date", "Dr A", "Consultation", 30},
		},
	)

	report, err := coordinator.IngestFile(IngestOptions{
		CenterID: "center-1",
		FilePath: path,
	})
	if err != nil {
		t.Fatalf("IngestFile failed: %v", err)
	}

	if report.TotalRows != 3 {
		t.Fatalf("TotalRows want=3 got=%d", report.TotalRows)
	}
	if report.SummaryRows != 1 {
		t.Fatalf("SummaryRows want=1 got=%d", report.SummaryRows)
	}
	if report.Diagnostics.InvalidDateRows != 1 {
		t.Fatalf("InvalidDateRows want=1 got=%d", report.Diagnostics.InvalidDateRows)
	}
	if report.IngestID == "" {
		t.Fatal("IngestID should not be empty")
	}

	summary, _, ok, err := centers.Get("center-1")
	if err != nil || !ok {
		t.Fatalf("stored summary missing: ok=%v err=%v", ok, err)
	}
	row := summary.Rows[0]
	if row.Consultation != 100 || row.Medicines != 50 || row.Total != 150 || row.VisitCount != 1 || row.AvgPerVisit != 150 {
		t.Fatalf("unexpected summary row: %+v", row)
	}
	if summary.SourceFile != "visits.xlsx" {
		t.Fatalf("SourceFile want=visits.xlsx got=%s", summary.SourceFile)
	}
}

// TestIngestFile_SchemaErrorLeavesStoreUntouched 缺列导致失败时旧汇总保持不变
func TestIngestFile_SchemaErrorLeavesStoreUntouched(t *testing.T) {
	centers := newTestCenters(t)
	coordinator := NewCoordinator(centers)

	// 先成功导入一次
	good := writeWorkbook(t,
		[]interface{}{"VisitNo", "VisitDate", "DocName", "Item Group", "ActivityIns"},
		[][]interface{}{{"V1", "2024-01-05", "Dr A", "Consultation", 100}},
	)
	if _, err := coordinator.IngestFile(IngestOptions{CenterID: "center-1", FilePath: good}); err != nil {
		t.Fatalf("first ingest failed: %v", err)
	}

	// 缺少 Item Group 列
	bad := writeWorkbook(t,
		[]interface{}{"VisitNo", "VisitDate", "DocName", "ActivityIns"},
		[][]interface{}{{"V9", "2024-06-01", "Dr Z", 999}},
	)
	_, err := coordinator.IngestFile(IngestOptions{CenterID: "center-1", FilePath: bad})

	var schemaErr *parser.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	found := false
	for _, role := range schemaErr.Missing {
		if string(role) == "ServiceGroupLabel" {
			found = true
		}
	}
	if !found {
		t.Fatalf("SchemaError should name the missing role: %v", schemaErr.Missing)
	}

	// 旧汇总不受影响
	summary, _, ok, err := centers.Get("center-1")
	if err != nil || !ok {
		t.Fatalf("previous summary lost: ok=%v err=%v", ok, err)
	}
	if len(summary.Rows) != 1 || summary.Rows[0].DoctorName != "Dr A" {
		t.Fatalf("previous summary mutated: %+v", summary.Rows)
	}
}

// TestIngestFile_SourceReadError 文件损坏时返回 SourceReadError
func TestIngestFile_SourceReadError(t *testing.T) {
	centers := newTestCenters(t)
	coordinator := NewCoordinator(centers)

	_, err := coordinator.IngestFile(IngestOptions{
		CenterID: "center-1",
		FilePath: filepath.Join(t.TempDir(), "missing.xlsx"),
	})

	var readErr *SourceReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected SourceReadError, got %v", err)
	}

	if _, _, ok, _ := centers.Get("center-1"); ok {
		t.Fatal("failed ingest must not create a summary")
	}
}

// TestIngest_ProgressEvents 异步导入发送 start 与 done 事件
func TestIngest_ProgressEvents(t *testing.T) {
	centers := newTestCenters(t)
	coordinator := NewCoordinator(centers)

	path := writeWorkbook(t,
		[]interface{}{"VisitNo", "VisitDate", "DocName", "Item Group", "ActivityIns"},
		[][]interface{}{{"V1", "2024-01-05", "Dr A", "Consultation", 100}},
	)

	var types []string
	for event := range coordinator.Ingest(IngestOptions{CenterID: "center-1", FilePath: path}) {
		types = append(types, event.Type)
	}

	if len(types) < 2 || types[0] != "start" || types[len(types)-1] != "done" {
		t.Fatalf("unexpected event sequence: %v", types)
	}
}
