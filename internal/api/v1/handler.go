package v1

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/DavidLanz/msdtools/internal/config"
	"github.com/DavidLanz/msdtools/internal/runner"
	"github.com/DavidLanz/msdtools/internal/store"
)

// Handler V1 API 处理器
type Handler struct {
	runner    *runner.Runner
	store     *store.Store
	cfg       *config.AppConfig
	version   string
	downloads *downloadStore
	logger    *slog.Logger
}

// NewHandler 创建 V1 API 处理器；st 为 nil 时运行记录接口返回空列表
func NewHandler(r *runner.Runner, st *store.Store, cfg *config.AppConfig, version string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		runner:    r,
		store:     st,
		cfg:       cfg,
		version:   version,
		downloads: newDownloadStore(),
		logger:    logger,
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)
	router.GET("/config", h.GetConfig)

	// 对比分析
	router.POST("/compare", h.Compare)
	router.POST("/compare/stream", h.CompareStream)
	router.GET("/download/:token", h.Download)

	// 运行记录
	router.GET("/runs", h.ListRuns)
}
