package aggregator

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/irfanshahuno/doctor-performance-app/internal/model"
	"github.com/irfanshahuno/doctor-performance-app/internal/parser"
)

// groupKey 聚合粒度：医生 × 年 × 月
type groupKey struct {
	doctor string
	year   int
	month  int
}

// Aggregate 将原始表聚合为中心汇总
//
// 绑定不完整时返回 SchemaError，不产生任何部分结果。
// 数据质量问题（无效日期、空医生名、未分类标签）只计入诊断，
// 不会中断聚合。
func Aggregate(centerID string, table *model.RawTable, binding *model.FieldBinding, rules []parser.BucketRule) (*model.CenterSummary, *model.Diagnostics, error) {
	if !binding.Complete() {
		var missing []model.FieldRole
		for _, role := range model.AllRoles() {
			if binding == nil {
				missing = append(missing, role)
				continue
			}
			if _, ok := binding.Columns[role]; !ok {
				missing = append(missing, role)
			}
		}
		return nil, nil, &parser.SchemaError{Missing: missing}
	}
	if rules == nil {
		rules = parser.DefaultBucketRules()
	}

	records := normalizeRows(table, binding, rules)
	diag := collectDiagnostics(records)

	// 金额聚合：对所有有效日期行求和，同一就诊号的多条费用行不去重
	amounts := make(map[groupKey]map[model.Bucket]float64)
	// 就诊量聚合：按 (医生, 年, 月) 统计去重后的就诊号
	visits := make(map[groupKey]map[string]struct{})

	for _, r := range records {
		if !r.Dated() {
			continue
		}
		key := groupKey{doctor: r.DoctorName, year: r.Year, month: r.MonthNumber}

		if _, ok := amounts[key]; !ok {
			amounts[key] = make(map[model.Bucket]float64)
		}
		amounts[key][r.Bucket] += r.Amount

		if _, ok := visits[key]; !ok {
			visits[key] = make(map[string]struct{})
		}
		if r.VisitID != "" {
			visits[key][r.VisitID] = struct{}{}
		}
	}

	rows := make([]model.SummaryRow, 0, len(amounts))
	for key, byBucket := range amounts {
		row := model.SummaryRow{
			DoctorName:   key.doctor,
			Year:         key.year,
			MonthNumber:  key.month,
			MonthLabel:   parser.MonthLabel(key.month),
			Consultation: byBucket[model.BucketConsultation],
			Medicines:    byBucket[model.BucketMedicines],
			Procedure:    byBucket[model.BucketProcedure],
			Other:        byBucket[model.BucketOther],
			VisitCount:   len(visits[key]),
		}
		row.Total = row.Consultation + row.Medicines + row.Procedure + row.Other
		row.AvgPerVisit = averagePerVisit(row.Total, row.VisitCount)
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].DoctorName != rows[j].DoctorName {
			return rows[i].DoctorName < rows[j].DoctorName
		}
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].MonthNumber < rows[j].MonthNumber
	})

	summary := &model.CenterSummary{
		CenterID:    centerID,
		GeneratedAt: time.Now(),
		Rows:        rows,
	}
	return summary, diag, nil
}

// normalizeRows 将每一行归一化为就诊记录
//
// 所有转换都是尽力而为：日期失败置为无效，金额失败归零，
// 医生名为空保留空串键（暴露数据质量问题而非静默丢弃）。
func normalizeRows(table *model.RawTable, binding *model.FieldBinding, rules []parser.BucketRule) []model.NormalizedRecord {
	visitCol := binding.Columns[model.RoleVisitID]
	dateCol := binding.Columns[model.RoleVisitDate]
	doctorCol := binding.Columns[model.RoleDoctorName]
	groupCol := binding.Columns[model.RoleServiceGroup]
	amountCol := binding.Columns[model.RoleAmount]

	records := make([]model.NormalizedRecord, 0, len(table.Rows))
	for rowIdx := range table.Rows {
		label := strings.TrimSpace(table.Cell(rowIdx, groupCol))
		r := model.NormalizedRecord{
			VisitID:    strings.TrimSpace(table.Cell(rowIdx, visitCol)),
			DoctorName: strings.TrimSpace(table.Cell(rowIdx, doctorCol)),
			Label:      label,
			Bucket:     parser.ClassifyLabel(label, rules),
			Amount:     parser.ParseAmount(table.Cell(rowIdx, amountCol)),
		}
		if t, ok := parser.ParseVisitDate(table.Cell(rowIdx, dateCol)); ok {
			r.Year = t.Year()
			r.MonthNumber = int(t.Month())
		}
		records = append(records, r)
	}
	return records
}

// collectDiagnostics 汇总非致命数据质量诊断
func collectDiagnostics(records []model.NormalizedRecord) *model.Diagnostics {
	diag := &model.Diagnostics{TotalRows: len(records)}

	otherStats := make(map[string]*model.OtherLabelStat)
	for i := range records {
		r := &records[i]
		if !r.Dated() {
			diag.InvalidDateRows++
		}
		if r.DoctorName == "" {
			diag.EmptyDoctorRows++
		}
		if r.Label == "" && r.Amount != 0 {
			diag.BlankLabelRows++
		}
		if r.Bucket == model.BucketOther && r.Label != "" {
			stat, ok := otherStats[r.Label]
			if !ok {
				stat = &model.OtherLabelStat{Label: r.Label}
				otherStats[r.Label] = stat
			}
			stat.Rows++
			stat.Amount += r.Amount
		}
	}

	labels := make([]string, 0, len(otherStats))
	for label := range otherStats {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		diag.OtherLabels = append(diag.OtherLabels, *otherStats[label])
	}

	return diag
}

// averagePerVisit 平均每次就诊收入，四舍五入取整
//
// 就诊量为 0 时返回 0，避免除零。
func averagePerVisit(total float64, visitCount int) int {
	if visitCount == 0 {
		return 0
	}
	return int(math.Floor(total/float64(visitCount) + 0.5))
}
