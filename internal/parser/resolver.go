package parser

import (
	"fmt"
	"strings"

	"github.com/irfanshahuno/doctor-performance-app/internal/model"
)

// RoleAliases 单个规范角色接受的列名别名（按优先级排序）
type RoleAliases struct {
	Role    model.FieldRole
	Aliases []string
}

// DefaultRoleAliases 默认别名表
//
// 覆盖常见导出的列名变体（VisitNo / Visit No / Visit_ID 等）。
// 匹配前列名与别名都会做规范化，大小写不敏感。
func DefaultRoleAliases() []RoleAliases {
	return []RoleAliases{
		{
			Role:    model.RoleVisitID,
			Aliases: []string{"VisitNo", "Visit No", "Visit_No", "VisitId", "Visit Id", "Visit_ID", "VisitNumber", "Visit Number"},
		},
		{
			Role:    model.RoleVisitDate,
			Aliases: []string{"VisitDate", "Visit Date", "Visit_Date", "Date", "BillDate", "Bill Date"},
		},
		{
			Role:    model.RoleDoctorName,
			Aliases: []string{"DocName", "Doc Name", "Doc_Name", "DoctorName", "Doctor Name", "Doctor", "Provider"},
		},
		{
			Role:    model.RoleServiceGroup,
			Aliases: []string{"Item Group", "ItemGroup", "Item_Group", "Service Group", "ServiceGroup", "Group", "Category"},
		},
		{
			Role:    model.RoleAmount,
			Aliases: []string{"ActivityIns", "Activity Ins", "Activity_Ins", "Amount", "Net Amount", "NetAmount", "Value"},
		},
	}
}

// doctorColumnTokens 医生列兜底匹配的关键词
//
// 医生列在各家导出里变化最大，找不到精确别名时退化为包含匹配。
// 其余四个角色没有兜底。
var doctorColumnTokens = []string{"docname", "doc", "doctor", "provider", "physician"}

// SchemaError 表结构解析失败
//
// 一次性列出所有缺失角色，而不是只报第一个。
type SchemaError struct {
	Missing []model.FieldRole
}

func (e *SchemaError) Error() string {
	names := make([]string, 0, len(e.Missing))
	for _, role := range e.Missing {
		names = append(names, string(role))
	}
	return fmt.Sprintf("missing required column(s): %s", strings.Join(names, ", "))
}

// ResolveSchema 用默认别名表解析列绑定
func ResolveSchema(columns []string) (*model.FieldBinding, error) {
	return ResolveSchemaWithAliases(columns, DefaultRoleAliases())
}

// ResolveSchemaWithAliases 将原始列头绑定到五个规范角色
//
// 匹配规则：列按表内顺序遍历，与别名做规范化后的精确比较，
// 第一个命中的列胜出，不打分。五个角色任一未绑定则整体失败。
func ResolveSchemaWithAliases(columns []string, aliases []RoleAliases) (*model.FieldBinding, error) {
	normalized := make([]string, len(columns))
	for i, col := range columns {
		normalized[i] = strings.ToLower(NormalizeColumnName(col))
	}

	binding := &model.FieldBinding{
		Columns: make(map[model.FieldRole]int),
		Names:   make(map[model.FieldRole]string),
	}

	for _, ra := range aliases {
		idx := matchExact(normalized, ra.Aliases)
		if idx < 0 && ra.Role == model.RoleDoctorName {
			idx = matchDoctorFallback(normalized)
		}
		if idx >= 0 {
			binding.Columns[ra.Role] = idx
			binding.Names[ra.Role] = NormalizeColumnName(columns[idx])
		}
	}

	var missing []model.FieldRole
	for _, role := range model.AllRoles() {
		if _, ok := binding.Columns[role]; !ok {
			missing = append(missing, role)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	return binding, nil
}

// matchExact 按列顺序找到第一个与任一别名精确匹配的列
func matchExact(normalized []string, roleAliases []string) int {
	for idx, col := range normalized {
		if col == "" {
			continue
		}
		for _, alias := range roleAliases {
			if col == strings.ToLower(NormalizeColumnName(alias)) {
				return idx
			}
		}
	}
	return -1
}

// matchDoctorFallback 医生列的包含式兜底匹配
func matchDoctorFallback(normalized []string) int {
	for idx, col := range normalized {
		if col == "" {
			continue
		}
		if ContainsAny(strings.ReplaceAll(col, " ", ""), doctorColumnTokens) {
			return idx
		}
	}
	return -1
}
