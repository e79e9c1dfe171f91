package model

// FieldRole 规范字段角色
//
// 每张导入表都必须在某个列名下提供这五个角色。
type FieldRole string

const (
	RoleVisitID      FieldRole = "VisitId"
	RoleVisitDate    FieldRole = "VisitDate"
	RoleDoctorName   FieldRole = "DoctorName"
	RoleServiceGroup FieldRole = "ServiceGroupLabel"
	RoleAmount       FieldRole = "Amount"
)

// AllRoles 返回全部规范角色（固定顺序）
func AllRoles() []FieldRole {
	return []FieldRole{
		RoleVisitID,
		RoleVisitDate,
		RoleDoctorName,
		RoleServiceGroup,
		RoleAmount,
	}
}

// RawTable 内存中的原始表（列名 + 数据行）
//
// 行可能参差不齐（尾部空单元格会被 Excel 读取器截断）。
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// Cell 读取指定行列的单元格，越界返回空串
func (t *RawTable) Cell(rowIdx, colIdx int) string {
	if rowIdx < 0 || rowIdx >= len(t.Rows) {
		return ""
	}
	row := t.Rows[rowIdx]
	if colIdx < 0 || colIdx >= len(row) {
		return ""
	}
	return row[colIdx]
}

// FieldBinding 规范角色到实际列的绑定
//
// 五个角色要么全部绑定，要么解析整体失败，不存在部分绑定状态。
type FieldBinding struct {
	Columns map[FieldRole]int    // 角色 -> 列下标
	Names   map[FieldRole]string // 角色 -> 实际列名
}

// Complete 是否五个角色全部绑定
func (b *FieldBinding) Complete() bool {
	if b == nil {
		return false
	}
	for _, role := range AllRoles() {
		if _, ok := b.Columns[role]; !ok {
			return false
		}
	}
	return true
}

// NormalizedRecord 归一化后的单条就诊记录
//
// Year/MonthNumber 为 0 表示日期无法解析，该行不参与月度聚合。
type NormalizedRecord struct {
	VisitID     string
	DoctorName  string
	Year        int
	MonthNumber int
	Label       string
	Bucket      Bucket
	Amount      float64
}

// Dated 日期是否有效（可参与月度聚合）
func (r *NormalizedRecord) Dated() bool {
	return r.Year > 0 && r.MonthNumber >= 1 && r.MonthNumber <= 12
}
