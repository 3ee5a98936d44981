package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ConfigResponse 配置响应（只读，不含路径等本地信息）
type ConfigResponse struct {
	// 报表输出
	Dataset        string   `json:"dataset"`
	SheetName      string   `json:"sheetName"`
	Headers        []string `json:"headers"`
	TopColor       string   `json:"topColor"`       // 前 N 名高亮颜色
	BottomColor    string   `json:"bottomColor"`    // 后 N 名高亮颜色
	HighlightCount int      `json:"highlightCount"` // 高亮的名次变化档数

	// 分析
	DuplicatePolicy string `json:"duplicatePolicy"`
	InputSheetName  string `json:"inputSheetName"`
	RunLogEnabled   bool   `json:"runLogEnabled"`
}

// GetConfig 获取当前生效的配置
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	if h.cfg == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "配置未載入"})
		return
	}

	headers := append([]string(nil), h.cfg.Report.Headers...)
	c.JSON(http.StatusOK, ConfigResponse{
		Dataset:         h.cfg.Report.Dataset,
		SheetName:       h.cfg.Report.SheetName,
		Headers:         headers,
		TopColor:        h.cfg.Report.TopColor,
		BottomColor:     h.cfg.Report.BottomColor,
		HighlightCount:  h.cfg.Report.HighlightCount,
		DuplicatePolicy: h.cfg.Analysis.DuplicatePolicy,
		InputSheetName:  h.cfg.Analysis.SheetName,
		RunLogEnabled:   h.store != nil,
	})
}
