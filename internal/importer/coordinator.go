package importer

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/irfanshahuno/doctor-performance-app/internal/aggregator"
	"github.com/irfanshahuno/doctor-performance-app/internal/model"
	"github.com/irfanshahuno/doctor-performance-app/internal/parser"
	"github.com/irfanshahuno/doctor-performance-app/internal/service/center"
)

// Coordinator 导入协调器
//
// 串联单次导入的完整流水线：读文件 → 列绑定 → 归一化聚合 → 落库。
// 流水线任一致命环节失败都发生在 Store 写入之前，
// 该中心的旧汇总保持不变。
type Coordinator struct {
	centers *center.Store
	aliases []parser.RoleAliases
	rules   []parser.BucketRule
}

// NewCoordinator 创建导入协调器
func NewCoordinator(centers *center.Store) *Coordinator {
	return &Coordinator{
		centers: centers,
		aliases: parser.DefaultRoleAliases(),
		rules:   parser.DefaultBucketRules(),
	}
}

// IngestOptions 导入选项
type IngestOptions struct {
	CenterID   string
	FilePath   string
	SourceName string // 展示用的原始文件名，为空时取 FilePath 的文件名
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`    // start/info/warning/done/error
	Message   string      `json:"message"` // 事件消息
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// IngestReport 单次导入的结果报告
type IngestReport struct {
	IngestID    string             `json:"ingestId"`
	CenterID    string             `json:"centerId"`
	SourceFile  string             `json:"sourceFile"`
	TotalRows   int                `json:"totalRows"`
	SummaryRows int                `json:"summaryRows"`
	Diagnostics *model.Diagnostics `json:"diagnostics"`
	Duration    time.Duration      `json:"duration"`
}

// IngestFile 同步执行一次导入
//
// 成功时返回报告；失败时返回 SchemaError / SourceReadError 等，
// Store 不发生任何变更。
func (c *Coordinator) IngestFile(opts IngestOptions) (*IngestReport, error) {
	startTime := time.Now()

	sourceName := opts.SourceName
	if sourceName == "" {
		sourceName = filepath.Base(opts.FilePath)
	}

	table, err := LoadFirstSheet(opts.FilePath)
	if err != nil {
		return nil, err
	}

	binding, err := parser.ResolveSchemaWithAliases(table.Columns, c.aliases)
	if err != nil {
		return nil, err
	}

	summary, diag, err := aggregator.Aggregate(opts.CenterID, table, binding, c.rules)
	if err != nil {
		return nil, err
	}
	summary.SourceFile = sourceName

	if err := c.centers.Put(opts.CenterID, summary, diag); err != nil {
		return nil, err
	}

	return &IngestReport{
		IngestID:    uuid.New().String(),
		CenterID:    opts.CenterID,
		SourceFile:  sourceName,
		TotalRows:   diag.TotalRows,
		SummaryRows: len(summary.Rows),
		Diagnostics: diag,
		Duration:    time.Since(startTime),
	}, nil
}

// Ingest 异步执行导入，返回进度通道
func (c *Coordinator) Ingest(opts IngestOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		c.doIngest(opts, progressChan)
	}()

	return progressChan
}

// doIngest 执行导入并发送进度事件
func (c *Coordinator) doIngest(opts IngestOptions, progressChan chan ProgressEvent) {
	sourceName := opts.SourceName
	if sourceName == "" {
		sourceName = filepath.Base(opts.FilePath)
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:    "start",
		Message: "开始导入就诊明细",
		Data: map[string]string{
			"centerId": opts.CenterID,
			"filename": sourceName,
		},
		Timestamp: time.Now(),
	})

	report, err := c.IngestFile(opts)
	if err != nil {
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "error",
			Message:   err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	if report.Diagnostics.InvalidDateRows > 0 {
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "warning",
			Message:   "部分行的就诊日期无效，已排除出月度聚合",
			Data:      map[string]int{"invalidDateRows": report.Diagnostics.InvalidDateRows},
			Timestamp: time.Now(),
		})
	}
	if len(report.Diagnostics.OtherLabels) > 0 {
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "warning",
			Message:   "部分服务组标签未能分类，已归入 Other",
			Data:      map[string]interface{}{"otherLabels": report.Diagnostics.OtherLabels},
			Timestamp: time.Now(),
		})
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:      "done",
		Message:   "导入完成",
		Data:      report,
		Timestamp: time.Now(),
	})
}

// sendProgress 发送进度事件
func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
		// 通道已满，丢弃事件
	}
}
