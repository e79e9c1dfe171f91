package model

import "time"

// Bucket 服务类别桶
type Bucket string

const (
	BucketConsultation Bucket = "Consultation"
	BucketMedicines    Bucket = "Medicines"
	BucketProcedure    Bucket = "Procedure"
	BucketOther        Bucket = "Other"
)

// AllBuckets 返回全部类别桶（固定顺序）
func AllBuckets() []Bucket {
	return []Bucket{
		BucketConsultation,
		BucketMedicines,
		BucketProcedure,
		BucketOther,
	}
}

// SummaryRow 汇总行，粒度为 医生 × 年 × 月
//
// 不变式：Total == Consultation + Medicines + Procedure + Other；
// AvgPerVisit 始终由 Total/VisitCount 重新计算，不单独修改。
type SummaryRow struct {
	DoctorName   string  `json:"doctorName"`
	Year         int     `json:"year"`
	MonthNumber  int     `json:"monthNumber"`
	MonthLabel   string  `json:"monthLabel"`
	Consultation float64 `json:"consultation"`
	Medicines    float64 `json:"medicines"`
	Procedure    float64 `json:"procedure"`
	Other        float64 `json:"other"`
	Total        float64 `json:"total"`
	VisitCount   int     `json:"visitCount"`
	AvgPerVisit  int     `json:"avgPerVisit"`
}

// BucketAmount 按桶取金额
func (r *SummaryRow) BucketAmount(b Bucket) float64 {
	switch b {
	case BucketConsultation:
		return r.Consultation
	case BucketMedicines:
		return r.Medicines
	case BucketProcedure:
		return r.Procedure
	case BucketOther:
		return r.Other
	}
	return 0
}

// CenterSummary 单个中心的最新汇总结果
//
// 每次成功导入整体替换，不做增量合并。
type CenterSummary struct {
	CenterID    string       `json:"centerId"`
	SourceFile  string       `json:"sourceFile"`
	GeneratedAt time.Time    `json:"generatedAt"`
	Rows        []SummaryRow `json:"rows"`
}

// OtherLabelStat Other 桶中原始标签的统计（供人工复核）
type OtherLabelStat struct {
	Label  string  `json:"label"`
	Rows   int     `json:"rows"`
	Amount float64 `json:"amount"`
}

// Diagnostics 非致命的数据质量诊断
//
// 诊断只随结果上报，不会中断聚合。
type Diagnostics struct {
	TotalRows       int              `json:"totalRows"`
	InvalidDateRows int              `json:"invalidDateRows"`
	EmptyDoctorRows int              `json:"emptyDoctorRows"`
	BlankLabelRows  int              `json:"blankLabelRows"`
	OtherLabels     []OtherLabelStat `json:"otherLabels"`
}
