package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"slgmonitor/internal/model"
	"slgmonitor/internal/router"
)

type routeRequest struct {
	State model.RouteState `json:"state"`
	Event router.Event     `json:"event"`
}

type routeResponse struct {
	State   model.RouteState `json:"state"`
	Actions []router.Action  `json:"actions"`
}

// DispatchRoute 应用一个路由事件, 返回新状态与待执行动作。
// 提权守卫在这里拿会话判定, 数据接口本身不做维度权限
// POST /api/route
func (h *Handler) DispatchRoute(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}
	elevated := h.sessions != nil && h.sessions.Elevated(sessionToken(c))
	state, actions := router.Transition(req.State, req.Event, elevated)
	c.JSON(http.StatusOK, routeResponse{State: state, Actions: actions})
}

// sessionToken 从 Authorization: Bearer 头取会话令牌
func sessionToken(c *gin.Context) string {
	const prefix = "Bearer "
	auth := c.GetHeader("Authorization")
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}
