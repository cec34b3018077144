package controller

import (
	"net/http"
	"strconv"
	"time"

	"gacha-system/logger"
	"gacha-system/web/global"
	"gacha-system/web/service"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	BaseController

	userService   *service.UserService
	systemService *service.SystemService
	serverService *service.ServerService

	lastStatus        *service.Status
	lastGetStatusTime time.Time
}

func NewAdminController(g *gin.RouterGroup, userService *service.UserService, systemService *service.SystemService, serverService *service.ServerService) *AdminController {
	a := &AdminController{
		userService:       userService,
		systemService:     systemService,
		serverService:     serverService,
		lastGetStatusTime: time.Now(),
	}
	a.initRouter(g)
	a.startTask()
	return a
}

func (a *AdminController) initRouter(g *gin.RouterGroup) {
	admin := g.Group("/admin")

	admin.POST("/verify", a.verify)
	admin.POST("/users", a.users)
	admin.POST("/delete-user", a.deleteUser)
	admin.POST("/update-points", a.updatePoints)
	admin.POST("/save-changelog", a.saveChangelog)
	admin.POST("/save-announcement", a.saveAnnouncement)
	admin.POST("/logs/:count", a.getLogs)
	admin.GET("/status", a.status)
}

func (a *AdminController) refreshStatus() {
	a.lastStatus = a.serverService.GetStatus()
}

// Keep the status fresh while someone is watching the panel, stop
// polling when nobody has asked for three minutes.
func (a *AdminController) startTask() {
	webServer := global.GetWebServer()
	c := webServer.GetCron()
	c.AddFunc("@every 2s", func() {
		now := time.Now()
		if now.Sub(a.lastGetStatusTime) > time.Minute*3 {
			return
		}
		a.refreshStatus()
	})
}

func (a *AdminController) verify(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !a.isAdmin(c, req.Password) {
		c.JSON(http.StatusForbidden, gin.H{"success": false})
		return
	}
	a.markAdmin(c)
	jsonObj(c, gin.H{"success": true})
}

func (a *AdminController) users(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !a.isAdmin(c, req.Password) {
		jsonErrorMsg(c, http.StatusForbidden, "auth failed")
		return
	}
	rows, err := a.userService.AdminUsers()
	if err != nil {
		jsonGameError(c, err)
		return
	}
	jsonObj(c, gin.H{"success": true, "users": rows})
}

func (a *AdminController) deleteUser(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
		TargetId string `json:"targetId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !a.isAdmin(c, req.Password) {
		jsonErrorMsg(c, http.StatusForbidden, "auth failed")
		return
	}
	if err := a.userService.AdminDeleteUser(req.TargetId); err != nil {
		jsonGameError(c, err)
		return
	}
	logger.Info("admin deleted user ", req.TargetId)
	jsonObj(c, gin.H{"success": true})
}

func (a *AdminController) updatePoints(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
		TargetId string `json:"targetId"`
		Amount   int64  `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !a.isAdmin(c, req.Password) {
		jsonErrorMsg(c, http.StatusForbidden, "auth failed")
		return
	}
	newBalance, err := a.userService.AdminAdjustCoins(req.TargetId, req.Amount)
	if err != nil {
		jsonGameError(c, err)
		return
	}
	jsonObj(c, gin.H{"success": true, "newBalance": newBalance})
}

func (a *AdminController) saveChangelog(c *gin.Context) {
	var req struct {
		Password string                   `json:"password"`
		Logs     []service.ChangelogEntry `json:"logs"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !a.isAdmin(c, req.Password) {
		jsonErrorMsg(c, http.StatusForbidden, "auth failed")
		return
	}
	if err := a.systemService.SaveChangelog(req.Logs); err != nil {
		jsonGameError(c, err)
		return
	}
	jsonObj(c, gin.H{"success": true})
}

func (a *AdminController) saveAnnouncement(c *gin.Context) {
	var req struct {
		Password     string               `json:"password"`
		Announcement service.Announcement `json:"announcement"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !a.isAdmin(c, req.Password) {
		jsonErrorMsg(c, http.StatusForbidden, "auth failed")
		return
	}
	if err := a.systemService.SaveAnnouncement(&req.Announcement); err != nil {
		jsonGameError(c, err)
		return
	}
	jsonObj(c, gin.H{"success": true})
}

func (a *AdminController) getLogs(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
		Level    string `json:"level"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !a.isAdmin(c, req.Password) {
		jsonErrorMsg(c, http.StatusForbidden, "auth failed")
		return
	}
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil || count <= 0 {
		count = 100
	}
	level := req.Level
	if level == "" {
		level = "info"
	}
	jsonObj(c, logger.GetLogs(count, level))
}

func (a *AdminController) status(c *gin.Context) {
	if !a.isAdmin(c, c.Query("password")) {
		jsonErrorMsg(c, http.StatusForbidden, "auth failed")
		return
	}
	a.lastGetStatusTime = time.Now()
	if a.lastStatus == nil {
		a.refreshStatus()
	}
	jsonObj(c, a.lastStatus)
}
