package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"slgmonitor/internal/cache"
	"slgmonitor/internal/model"
	"slgmonitor/internal/resolve"
)

type resolveRequest struct {
	DisplayName string `json:"displayName" binding:"required"`
	Year        int    `json:"year" binding:"required"`
	Week        string `json:"week" binding:"required"`
}

// ResolveIdentity 把产品标签解析为统一 ID
// POST /api/resolve
func (h *Handler) ResolveIdentity(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}
	p := model.Period{Year: req.Year, WeekTag: req.Week}
	if !p.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "非法周标签"})
		return
	}

	ctx := c.Request.Context()
	var tables []resolve.CandidateTable
	for _, tag := range []model.SourceTable{model.SourceOld, model.SourceNew} {
		if t, err := h.src.StrategyTable(ctx, p, tag); err == nil {
			tables = append(tables, resolve.FromSnapshot(t, tag))
		}
	}
	if t, err := h.src.Snapshot(ctx, p); err == nil {
		tables = append(tables, resolve.FromSnapshot(t, model.SourceFormatted))
	}

	identity := model.ProductIdentity{DisplayName: req.DisplayName}
	h.resolver.Resolve(&identity, tables)
	c.JSON(http.StatusOK, identity)
}

// GetCompanyPanel 公司详细看板, 会话内缓存
// GET /api/company/:name/panel?year=&week=
func (h *Handler) GetCompanyPanel(c *gin.Context) {
	p, ok := queryPeriod(c)
	if !ok {
		return
	}
	name := c.Param("name")

	key := cache.Key{Period: p, EntityKey: name}
	panel, err := h.cache.GetOrCompute(cache.EntityCompany, key, func() (any, error) {
		return h.svc.CompanyPanel(c.Request.Context(), p, name)
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, panel)
}

// GetProductPanel 产品详细看板, 会话内缓存。已知 uid 时直接按 ID,
// 否则先走一次解析
// GET /api/product/panel?name=&uid=&year=&week=
func (h *Handler) GetProductPanel(c *gin.Context) {
	p, ok := queryPeriod(c)
	if !ok {
		return
	}
	name := c.Query("name")
	uid := c.Query("uid")
	if name == "" && uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少产品名或 ID"})
		return
	}

	entityKey := uid
	if entityKey == "" {
		entityKey = name
	}
	key := cache.Key{Period: p, EntityKey: entityKey}
	panel, err := h.cache.GetOrCompute(cache.EntityProduct, key, func() (any, error) {
		return h.svc.ProductPanel(c.Request.Context(), p, model.ProductIdentity{
			DisplayName: name,
			UnifiedID:   uid,
		})
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, panel)
}

// GetCompanyTrend 公司周安装趋势
// GET /api/company/:name/trend
func (h *Handler) GetCompanyTrend(c *gin.Context) {
	trend, err := h.svc.CompanyTrendSeries(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, trend)
}

// GetProductTrend 产品周安装与地区获量趋势
// GET /api/product/trend?name=&uid=
func (h *Handler) GetProductTrend(c *gin.Context) {
	name := c.Query("name")
	uid := c.Query("uid")
	if name == "" && uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少产品名或 ID"})
		return
	}
	trend, err := h.svc.ProductTrendSeries(c.Request.Context(), model.ProductIdentity{
		DisplayName: name,
		UnifiedID:   uid,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, trend)
}

// GetCreatives 产品四地区素材, 并发拉取合并去重
// GET /api/creative?year=&week=&product=
func (h *Handler) GetCreatives(c *gin.Context) {
	p, ok := queryPeriod(c)
	if !ok {
		return
	}
	product := c.Query("product")
	if product == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少产品名"})
		return
	}
	set, err := h.svc.CreativeRegions(c.Request.Context(), p, product)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"creatives": set})
}
