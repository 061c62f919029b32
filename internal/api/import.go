package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"slgmonitor/internal/importer"
	"slgmonitor/internal/model"
)

// Import 导入一周的导出工作簿, 写入 SQLite 库。仅提权会话可用
// POST /api/import  (multipart: file, year, week)
func (h *Handler) Import(c *gin.Context) {
	if h.sessions == nil || !h.sessions.Elevated(sessionToken(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "需要提权会话"})
		return
	}
	if h.importDB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "当前数据后端不支持导入"})
		return
	}

	year, err := strconv.Atoi(c.PostForm("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "非法年份"})
		return
	}
	p := model.Period{Year: year, WeekTag: c.PostForm("week")}
	if !p.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "非法周标签"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少上传文件"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	im := importer.New()
	if err := im.LoadFile(fileHeader.Filename, file); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer im.Close()

	if err := im.ImportInto(h.importDB, p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "year": p.Year, "week": p.WeekTag})
}
