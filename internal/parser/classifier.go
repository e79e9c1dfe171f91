package parser

import (
	"strings"

	"github.com/irfanshahuno/doctor-performance-app/internal/model"
)

// BucketRule 单条分类规则：标签包含任一关键词则归入对应桶
type BucketRule struct {
	Bucket   model.Bucket
	Keywords []string
}

// DefaultBucketRules 默认分类规则表
//
// 规则按固定优先级求值：Consultation 在 Medicines 之前，
// Medicines 在 Procedure 之前。标签可能同时命中多组关键词，
// 此时以此顺序为准（first-match-wins），不按"最长匹配"。
func DefaultBucketRules() []BucketRule {
	return []BucketRule{
		{
			Bucket:   model.BucketConsultation,
			Keywords: []string{"consult", "opd"},
		},
		{
			Bucket:   model.BucketMedicines,
			Keywords: []string{"medicine", "drug", "pharma", "tablet", "capsule", "syrup", "injection"},
		},
		{
			Bucket:   model.BucketProcedure,
			Keywords: []string{"procedure", "surgery", "dressing", "suture", "scan", "x-ray"},
		},
	}
}

// ClassifyLabel 将服务组标签映射到四个固定桶之一
//
// 标签为空或未命中任何规则时归入 Other。
func ClassifyLabel(label string, rules []BucketRule) model.Bucket {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if normalized == "" {
		return model.BucketOther
	}

	for _, rule := range rules {
		if ContainsAny(normalized, rule.Keywords) {
			return rule.Bucket
		}
	}

	return model.BucketOther
}
