package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListCenters 列出所有已有汇总的中心
// GET /api/v1/centers
func (h *Handler) ListCenters(c *gin.Context) {
	ids, err := h.centers.Centers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"centers": ids})
}

// GetSummary 查询指定中心的最新汇总（行集 + 诊断）
// GET /api/v1/centers/:centerId/summary
func (h *Handler) GetSummary(c *gin.Context) {
	centerID := c.Param("centerId")

	summary, diag, ok, err := h.centers.Get(centerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "该中心暂无汇总数据"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":     summary,
		"diagnostics": diag,
	})
}

// ClearCenter 清除指定中心的汇总（内存与持久化副本一并删除）
// DELETE /api/v1/centers/:centerId
func (h *Handler) ClearCenter(c *gin.Context) {
	centerID := c.Param("centerId")

	if err := h.centers.Clear(centerID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cleared": centerID})
}
