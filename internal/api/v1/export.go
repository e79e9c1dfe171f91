package v1

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/irfanshahuno/doctor-performance-app/internal/exporter"
)

// exportDownloadTTL 导出文件下载令牌的有效期
const exportDownloadTTL = 10 * time.Minute

// Export 导出指定中心的汇总为 xlsx，返回下载令牌
// POST /api/v1/centers/:centerId/export
func (h *Handler) Export(c *gin.Context) {
	centerID := c.Param("centerId")

	summary, _, ok, err := h.centers.Get(centerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "该中心暂无汇总数据"})
		return
	}

	if err := os.MkdirAll(h.exportDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建导出目录失败"})
		return
	}

	filename := fmt.Sprintf("doc_performance_%s_%d.xlsx", centerID, time.Now().Unix())
	filePath := filepath.Join(h.exportDir, filename)

	if err := exporter.WriteFile(summary, filePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("导出失败: %v", err)})
		return
	}

	token := h.downloads.put(filePath, centerID, exportDownloadTTL)

	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"downloadUrl": "/api/v1/export/download/" + token,
		"expiresIn":   int(exportDownloadTTL.Seconds()),
	})
}

// DownloadExport 按令牌下载导出文件
// GET /api/v1/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")

	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接不存在或已过期"})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		h.downloads.delete(token)
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件已不存在"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(item.filePath)))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.File(item.filePath)
}
