package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	AdminKey string `json:"adminKey"`
}

// Login 用提权口令换会话令牌
// POST /api/session
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}
	if h.adminKey == "" || req.AdminKey != h.adminKey {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "口令错误"})
		return
	}
	s := h.sessions.Create(true)
	c.JSON(http.StatusOK, s)
}

// Logout 注销当前会话
// DELETE /api/session
func (h *Handler) Logout(c *gin.Context) {
	if token := sessionToken(c); token != "" {
		h.sessions.Revoke(token)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
