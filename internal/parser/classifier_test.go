package parser

import (
	"testing"

	"github.com/irfanshahuno/doctor-performance-app/internal/model"
)

func TestClassifyLabel_Buckets(t *testing.T) {
	t.Parallel()

	rules := DefaultBucketRules()

	cases := []struct {
		label string
		want  model.Bucket
	}{
		{"Consultation", model.BucketConsultation},
		{"Consultations", model.BucketConsultation},
		{"OPD Consult", model.BucketConsultation},
		{"Medicine", model.BucketMedicines},
		{"Medicines", model.BucketMedicines},
		{"Drugs", model.BucketMedicines},
		{"Tablet", model.BucketMedicines},
		{"Procedure", model.BucketProcedure},
		{"Minor Surgery", model.BucketProcedure},
		{"Dressing", model.BucketProcedure},
		{"Room Charges", model.BucketOther},
		{"", model.BucketOther},
		{"   ", model.BucketOther},
	}
	for _, c := range cases {
		if got := ClassifyLabel(c.label, rules); got != c.want {
			t.Fatalf("ClassifyLabel(%q) want=%s got=%s", c.label, c.want, got)
		}
	}
}

// TestClassifyLabel_Precedence 标签同时命中多组关键词时按固定优先级求值
func TestClassifyLabel_Precedence(t *testing.T) {
	t.Parallel()

	rules := DefaultBucketRules()

	// 同时包含 Consultation 与 Medicines 关键词 -> Consultation
	if got := ClassifyLabel("Consultation with Drugs", rules); got != model.BucketConsultation {
		t.Fatalf("want=%s got=%s", model.BucketConsultation, got)
	}
	// 同时包含 Medicines 与 Procedure 关键词 -> Medicines
	if got := ClassifyLabel("Drug Injection Procedure", rules); got != model.BucketMedicines {
		t.Fatalf("want=%s got=%s", model.BucketMedicines, got)
	}
}

func TestClassifyLabel_CaseInsensitive(t *testing.T) {
	t.Parallel()

	rules := DefaultBucketRules()

	if got := ClassifyLabel("  CONSULTATION  ", rules); got != model.BucketConsultation {
		t.Fatalf("want=%s got=%s", model.BucketConsultation, got)
	}
}
