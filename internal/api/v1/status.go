package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Version 应用版本
const Version = "1.0.0"

// GetStatus 查询系统状态
// GET /api/v1/status
func (h *Handler) GetStatus(c *gin.Context) {
	ids, err := h.centers.Centers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"version":     Version,
		"centerCount": len(ids),
	})
}
