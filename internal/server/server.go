// Package server gin HTTP 服务装配：按配置选数据后端，接上 API 与静态数据目录。
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"slgmonitor/internal/api"
	"slgmonitor/internal/config"
	"slgmonitor/internal/resolve"
	"slgmonitor/internal/session"
	"slgmonitor/internal/source"
	"slgmonitor/internal/store"
)

// Server HTTP服务器
type Server struct {
	router   *gin.Engine
	handler  *api.Handler
	sessions *session.Manager
	db       *store.Store
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig, dataDir string) (*Server, error) {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	var (
		src source.Source
		db  *store.Store
	)
	switch cfg.Data.Backend {
	case "sqlite":
		var err error
		db, err = store.New(cfg.Data.DBPath)
		if err != nil {
			return nil, fmt.Errorf("初始化数据库失败: %w", err)
		}
		src = db
	case "file", "":
		src = source.NewFileSource(dataDir, time.Duration(cfg.Data.IndexTimeoutMS)*time.Millisecond)
	default:
		return nil, fmt.Errorf("未知数据后端: %q", cfg.Data.Backend)
	}

	sessions := session.NewManager(time.Duration(cfg.Auth.SessionTTLMinutes) * time.Minute)

	handler := api.NewHandler(api.Options{
		Source:     src,
		Resolver:   resolve.New(cfg.ResolvePriority()),
		CacheLimit: cfg.Cache.DetailLimit,
		Sessions:   sessions,
		ImportDB:   db,
		AdminKey:   cfg.Auth.AdminKey,
	})

	s := &Server{
		router:   gin.Default(),
		handler:  handler,
		sessions: sessions,
		db:       db,
	}
	s.setupRoutes(dataDir, devMode)
	return s, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(dataDir string, devMode bool) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.handler.RegisterRoutes(apiGroup)
	}

	// 数据目录直出, 前端图表按周期路径直接取文件
	s.router.Static("/data", dataDir)

	if devMode {
		// 开发模式：代理到前端开发服务器
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
	} else {
		s.router.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		})
	}
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 释放会话管理器与数据库连接
func (s *Server) Close() error {
	s.sessions.Close()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Router 返回路由引擎（用于测试）
func (s *Server) Router() *gin.Engine {
	return s.router
}
