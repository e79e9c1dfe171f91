package center

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/irfanshahuno/doctor-performance-app/internal/model"
	"github.com/irfanshahuno/doctor-performance-app/internal/store"
)

func newTestDB(t *testing.T, dbPath string) *store.Store {
	t.Helper()
	db, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleSummary(centerID string) (*model.CenterSummary, *model.Diagnostics) {
	summary := &model.CenterSummary{
		CenterID:    centerID,
		SourceFile:  "visits.xlsx",
		GeneratedAt: time.Now(),
		Rows: []model.SummaryRow{
			{
				DoctorName: "Dr A", Year: 2024, MonthNumber: 1, MonthLabel: "Jan",
				Consultation: 100, Medicines: 50,
				Total: 150, VisitCount: 1, AvgPerVisit: 150,
			},
			{
				DoctorName: "Dr B", Year: 2024, MonthNumber: 2, MonthLabel: "Feb",
				Procedure: 300,
				Total:     300, VisitCount: 2, AvgPerVisit: 150,
			},
		},
	}
	diag := &model.Diagnostics{TotalRows: 3, InvalidDateRows: 1}
	return summary, diag
}

// TestPutGet 写入后可读回
func TestPutGet(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	centers := NewStore(newTestDB(t, dbPath))

	summary, diag := sampleSummary("center-1")
	if err := centers.Put("center-1", summary, diag); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, gotDiag, ok, err := centers.Get("center-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("Get should find the summary")
	}
	if len(got.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got.Rows))
	}
	if got.Rows[0].DoctorName != "Dr A" || got.Rows[0].Total != 150 {
		t.Fatalf("unexpected first row: %+v", got.Rows[0])
	}
	if gotDiag.InvalidDateRows != 1 {
		t.Fatalf("InvalidDateRows want=1 got=%d", gotDiag.InvalidDateRows)
	}
}

// TestGetEmpty 不存在的中心返回空
func TestGetEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	centers := NewStore(newTestDB(t, dbPath))

	_, _, ok, err := centers.Get("nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Fatal("Get should report empty for unknown center")
	}
}

// TestPutReplacesWholesale 再次写入整体替换旧结果
func TestPutReplacesWholesale(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	centers := NewStore(newTestDB(t, dbPath))

	first, diag := sampleSummary("center-1")
	if err := centers.Put("center-1", first, diag); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	second := &model.CenterSummary{
		CenterID:    "center-1",
		SourceFile:  "visits_v2.xlsx",
		GeneratedAt: time.Now(),
		Rows: []model.SummaryRow{
			{DoctorName: "Dr C", Year: 2024, MonthNumber: 3, MonthLabel: "Mar", Other: 10, Total: 10, VisitCount: 1, AvgPerVisit: 10},
		},
	}
	if err := centers.Put("center-1", second, &model.Diagnostics{TotalRows: 1}); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, _, ok, err := centers.Get("center-1")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if len(got.Rows) != 1 || got.Rows[0].DoctorName != "Dr C" {
		t.Fatalf("old rows should be gone: %+v", got.Rows)
	}
	if got.SourceFile != "visits_v2.xlsx" {
		t.Fatalf("SourceFile want=visits_v2.xlsx got=%s", got.SourceFile)
	}
}

// TestHydrationAfterRestart 重启后空的内存槽位从磁盘补水
func TestHydrationAfterRestart(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db := newTestDB(t, dbPath)
	centers := NewStore(db)
	summary, diag := sampleSummary("center-1")
	if err := centers.Put("center-1", summary, diag); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	db.Close()

	// 模拟进程重启：同一数据库文件上的全新实例
	reopened := NewStore(newTestDB(t, dbPath))

	got, gotDiag, ok, err := reopened.Get("center-1")
	if err != nil {
		t.Fatalf("Get after restart failed: %v", err)
	}
	if !ok {
		t.Fatal("Get after restart should hydrate from disk")
	}
	if len(got.Rows) != 2 || got.Rows[1].Procedure != 300 {
		t.Fatalf("hydrated rows mismatch: %+v", got.Rows)
	}
	if gotDiag.TotalRows != 3 {
		t.Fatalf("hydrated diagnostics mismatch: %+v", gotDiag)
	}
}

// TestClearRemovesDurableCopy 清除后即使重启也保持为空
func TestClearRemovesDurableCopy(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db := newTestDB(t, dbPath)
	centers := NewStore(db)
	summary, diag := sampleSummary("center-1")
	if err := centers.Put("center-1", summary, diag); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := centers.Clear("center-1"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, _, ok, _ := centers.Get("center-1"); ok {
		t.Fatal("Get after Clear should be empty")
	}
	db.Close()

	// 重启后持久化副本也应不存在
	reopened := NewStore(newTestDB(t, dbPath))
	if _, _, ok, _ := reopened.Get("center-1"); ok {
		t.Fatal("Get after restart should still be empty")
	}
}

// TestTenantIsolation 不同中心互不影响
func TestTenantIsolation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	centers := NewStore(newTestDB(t, dbPath))

	s1, d1 := sampleSummary("center-1")
	s2, d2 := sampleSummary("center-2")
	if err := centers.Put("center-1", s1, d1); err != nil {
		t.Fatalf("Put center-1 failed: %v", err)
	}
	if err := centers.Put("center-2", s2, d2); err != nil {
		t.Fatalf("Put center-2 failed: %v", err)
	}

	if err := centers.Clear("center-1"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if _, _, ok, _ := centers.Get("center-1"); ok {
		t.Fatal("center-1 should be empty")
	}
	if _, _, ok, _ := centers.Get("center-2"); !ok {
		t.Fatal("center-2 should be untouched")
	}

	ids, err := centers.Centers()
	if err != nil {
		t.Fatalf("Centers failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != "center-2" {
		t.Fatalf("unexpected centers: %v", ids)
	}
}
