package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/irfanshahuno/doctor-performance-app/internal/importer"
	"github.com/irfanshahuno/doctor-performance-app/internal/service/center"
)

// Handler V1 API 处理器
type Handler struct {
	centers     *center.Store
	coordinator *importer.Coordinator
	exportDir   string
	downloads   *exportDownloadStore
}

// NewHandler 创建 V1 API 处理器
func NewHandler(centers *center.Store, exportDir string) *Handler {
	return &Handler{
		centers:     centers,
		coordinator: importer.NewCoordinator(centers),
		exportDir:   exportDir,
		downloads:   newExportDownloadStore(),
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 中心列表
	router.GET("/centers", h.ListCenters)

	// 数据导入（SSE 进度流）
	router.POST("/centers/:centerId/import", h.Import)

	// 汇总查询与清除
	router.GET("/centers/:centerId/summary", h.GetSummary)
	router.DELETE("/centers/:centerId", h.ClearCenter)

	// 数据导出
	router.POST("/centers/:centerId/export", h.Export)
	router.GET("/export/download/:token", h.DownloadExport)
}
