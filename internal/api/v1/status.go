package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DavidLanz/msdtools/internal/model"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Version          string `json:"version"`
	RunLogEnabled    bool   `json:"runLogEnabled"`    // 是否记录运行日志
	TotalRuns        int    `json:"totalRuns"`        // 运行总数
	FailedRuns       int    `json:"failedRuns"`       // 失败次数
	PendingDownloads int    `json:"pendingDownloads"` // 待下载的结果数
	LastRunTime      string `json:"lastRunTime"`      // 最后运行时间
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{
		Version:          h.version,
		RunLogEnabled:    h.store != nil,
		PendingDownloads: h.downloads.len(),
	}

	if h.store != nil {
		total, failed, err := h.store.CountRuns()
		if err == nil {
			resp.TotalRuns = total
			resp.FailedRuns = failed
		}
		if runs, err := h.store.ListRuns(1); err == nil && len(runs) > 0 {
			resp.LastRunTime = runs[0].CreatedAt.Format("2006-01-02 15:04:05")
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ListRuns 列出最近的运行记录
// GET /api/runs?limit=20
func (h *Handler) ListRuns(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit 參數無效"})
			return
		}
		limit = n
	}

	if h.store == nil {
		c.JSON(http.StatusOK, gin.H{"items": []model.RunRecord{}, "total": 0})
		return
	}

	runs, err := h.store.ListRuns(limit)
	if err != nil {
		h.logger.Error("failed to list runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查詢運行記錄失敗"})
		return
	}
	if runs == nil {
		runs = []model.RunRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"items": runs, "total": len(runs)})
}
