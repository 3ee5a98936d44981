package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DavidLanz/msdtools/internal/analysis"
)

type compareProgressEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// CompareStream 对比分析（SSE 进度 + 完成后提供下载地址）
// POST /api/compare/stream
func (h *Handler) CompareStream(c *gin.Context) {
	inputs, err := readUploads(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支援串流回應"})
		return
	}

	send := func(event compareProgressEvent) {
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	names := make([]string, 0, len(inputs))
	for _, in := range inputs {
		names = append(names, in.Name)
	}
	send(compareProgressEvent{
		Type:      "start",
		Message:   "開始分析",
		Data:      map[string]any{"files": names},
		Timestamp: time.Now(),
	})

	lastPercent := -1
	progressFn := func(p analysis.ProgressEvent) {
		if p.Percent == lastPercent {
			return
		}
		lastPercent = p.Percent
		send(compareProgressEvent{
			Type:      "progress",
			Message:   p.Stage,
			Data:      map[string]any{"percent": p.Percent},
			Timestamp: time.Now(),
		})
	}

	runID, res, err := h.runner.Run(inputs, progressFn)
	if err != nil {
		send(compareProgressEvent{
			Type:      "error",
			Message:   analysis.UserMessage,
			Data:      map[string]any{"runId": runID},
			Timestamp: time.Now(),
		})
		return
	}

	token := h.downloads.put(res.Artifact, runID, downloadTTL)
	prefix := "/api"
	if strings.HasPrefix(c.Request.URL.Path, "/api/v1/") {
		prefix = "/api/v1"
	}

	send(compareProgressEvent{
		Type:    "done",
		Message: "分析完成",
		Data: map[string]any{
			"percent":     100,
			"runId":       runID,
			"fileName":    res.Artifact.FileName,
			"rows":        res.Artifact.RowCount,
			"summary":     res.Report.Summary,
			"downloadUrl": fmt.Sprintf("%s/download/%s", prefix, token),
		},
		Timestamp: time.Now(),
	})
}

// Download 下载流式分析生成的 Excel 文件（一次性）
// GET /api/download/:token
func (h *Handler) Download(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 token"})
		return
	}

	item, ok := h.downloads.take(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下載連結已失效"})
		return
	}

	c.Header("X-Run-Id", item.runID)
	writeArtifact(c, item.artifact)
}
