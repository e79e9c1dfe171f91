package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/irfanshahuno/doctor-performance-app/internal/model"
)

// ReplaceCenterSummary 整体替换指定中心的汇总结果
//
// 删除与写入在同一事务中提交，读者要么看到旧结果要么看到新结果，
// 不会观察到中间状态。
func (s *Store) ReplaceCenterSummary(centerID string, summary *model.CenterSummary, diag *model.Diagnostics) error {
	diagJSON, err := json.Marshal(diag)
	if err != nil {
		return fmt.Errorf("failed to marshal diagnostics: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM center_summary_rows WHERE center_id = ?", centerID); err != nil {
		return fmt.Errorf("failed to delete old rows: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO center_summary_rows (
			center_id, doctor_name, year, month_number, month_label,
			consultation, medicines, procedure, other,
			total, visit_count, avg_per_visit, sort_order
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, r := range summary.Rows {
		_, err := stmt.Exec(
			centerID, r.DoctorName, r.Year, r.MonthNumber, r.MonthLabel,
			r.Consultation, r.Medicines, r.Procedure, r.Other,
			r.Total, r.VisitCount, r.AvgPerVisit, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert summary row: %w", err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO center_meta (center_id, source_file, generated_at, diagnostics_json, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(center_id) DO UPDATE SET
			source_file = excluded.source_file,
			generated_at = excluded.generated_at,
			diagnostics_json = excluded.diagnostics_json,
			updated_at = CURRENT_TIMESTAMP
	`, centerID, summary.SourceFile, summary.GeneratedAt, string(diagJSON))
	if err != nil {
		return fmt.Errorf("failed to upsert center meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetCenterSummary 读取指定中心的最新汇总
//
// 中心不存在时返回 (nil, nil, nil)。
func (s *Store) GetCenterSummary(centerID string) (*model.CenterSummary, *model.Diagnostics, error) {
	summary := &model.CenterSummary{CenterID: centerID}
	var diagJSON string

	err := s.db.QueryRow(`
		SELECT source_file, generated_at, diagnostics_json
		FROM center_meta WHERE center_id = ?
	`, centerID).Scan(&summary.SourceFile, &summary.GeneratedAt, &diagJSON)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query center meta: %w", err)
	}

	diag := &model.Diagnostics{}
	if err := json.Unmarshal([]byte(diagJSON), diag); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal diagnostics: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT doctor_name, year, month_number, month_label,
			consultation, medicines, procedure, other,
			total, visit_count, avg_per_visit
		FROM center_summary_rows
		WHERE center_id = ?
		ORDER BY sort_order
	`, centerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query summary rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r model.SummaryRow
		err := rows.Scan(
			&r.DoctorName, &r.Year, &r.MonthNumber, &r.MonthLabel,
			&r.Consultation, &r.Medicines, &r.Procedure, &r.Other,
			&r.Total, &r.VisitCount, &r.AvgPerVisit,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}
		summary.Rows = append(summary.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("rows error: %w", err)
	}

	return summary, diag, nil
}

// DeleteCenterSummary 删除指定中心的汇总与元信息
func (s *Store) DeleteCenterSummary(centerID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM center_summary_rows WHERE center_id = ?", centerID); err != nil {
		return fmt.Errorf("failed to delete rows: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM center_meta WHERE center_id = ?", centerID); err != nil {
		return fmt.Errorf("failed to delete meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListCenterIDs 列出所有已有汇总的中心
func (s *Store) ListCenterIDs() ([]string, error) {
	rows, err := s.db.Query("SELECT center_id FROM center_meta ORDER BY center_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query centers: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan center id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return ids, nil
}
