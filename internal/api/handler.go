// Package api 核心操作的 HTTP 暴露层。业务全部在 metrics/resolve/router
// 等包里，这里只做参数解析、会话校验和缓存接线。
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"slgmonitor/internal/cache"
	"slgmonitor/internal/metrics"
	"slgmonitor/internal/model"
	"slgmonitor/internal/resolve"
	"slgmonitor/internal/session"
	"slgmonitor/internal/source"
	"slgmonitor/internal/store"
)

// Handler API 处理器
type Handler struct {
	src      source.Source
	svc      *metrics.Service
	resolver *resolve.Resolver
	cache    *cache.DetailCache
	sessions *session.Manager
	importDB *store.Store // 为 nil 时导入接口不可用
	adminKey string
}

// Options Handler 依赖项
type Options struct {
	Source     source.Source
	Resolver   *resolve.Resolver
	CacheLimit int
	Sessions   *session.Manager
	ImportDB   *store.Store
	AdminKey   string
}

// NewHandler 创建 API 处理器
func NewHandler(opts Options) *Handler {
	if opts.Resolver == nil {
		opts.Resolver = resolve.New(nil)
	}
	return &Handler{
		src:      opts.Source,
		svc:      metrics.NewService(opts.Source, opts.Resolver),
		resolver: opts.Resolver,
		cache:    cache.New(opts.CacheLimit),
		sessions: opts.Sessions,
		importDB: opts.ImportDB,
		adminKey: opts.AdminKey,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 周期与原始快照
	router.GET("/periods", h.ListPeriods)
	router.GET("/snapshot/:year/:week", h.GetSnapshot)
	router.GET("/metrics/:year/:week", h.GetMetrics)

	// 身份解析
	router.POST("/resolve", h.ResolveIdentity)

	// 详情看板与趋势
	router.GET("/company/:name/panel", h.GetCompanyPanel)
	router.GET("/company/:name/trend", h.GetCompanyTrend)
	router.GET("/product/panel", h.GetProductPanel)
	router.GET("/product/trend", h.GetProductTrend)
	router.GET("/creative", h.GetCreatives)

	// 路由状态机
	router.POST("/route", h.DispatchRoute)

	// 会话
	router.POST("/session", h.Login)
	router.DELETE("/session", h.Logout)

	// 数据导入（提权）
	router.POST("/import", h.Import)
}

// ListPeriods 全部已知周期, 升序
// GET /api/periods
func (h *Handler) ListPeriods(c *gin.Context) {
	periods, err := h.src.PeriodIndex(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"periods": periods})
}

// GetSnapshot 某周期的大盘表
// GET /api/snapshot/:year/:week
func (h *Handler) GetSnapshot(c *gin.Context) {
	h.serveSnapshot(c, h.src.Snapshot)
}

// GetMetrics 某周期的累计指标表
// GET /api/metrics/:year/:week
func (h *Handler) GetMetrics(c *gin.Context) {
	h.serveSnapshot(c, h.src.MetricsSnapshot)
}

func (h *Handler) serveSnapshot(c *gin.Context, load func(ctx context.Context, p model.Period) (*model.Snapshot, error)) {
	p, ok := pathPeriod(c)
	if !ok {
		return
	}
	snap, err := load(c.Request.Context(), p)
	if err != nil {
		status := http.StatusInternalServerError
		if isNotFound(err) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func isNotFound(err error) bool {
	return errors.Is(err, source.ErrNotFound)
}

// pathPeriod 解析 /:year/:week 路径参数
func pathPeriod(c *gin.Context) (model.Period, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "非法年份"})
		return model.Period{}, false
	}
	p := model.Period{Year: year, WeekTag: c.Param("week")}
	if !p.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "非法周标签"})
		return model.Period{}, false
	}
	return p, true
}

// queryPeriod 解析 ?year=&week= 查询参数
func queryPeriod(c *gin.Context) (model.Period, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "非法年份"})
		return model.Period{}, false
	}
	p := model.Period{Year: year, WeekTag: c.Query("week")}
	if !p.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "非法周标签"})
		return model.Period{}, false
	}
	return p, true
}
