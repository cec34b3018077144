package controller

import (
	"strconv"

	"gacha-system/web/service"

	"github.com/gin-gonic/gin"
)

type SystemController struct {
	BaseController

	viewService   *service.ViewService
	systemService *service.SystemService
}

func NewSystemController(g *gin.RouterGroup, viewService *service.ViewService, systemService *service.SystemService) *SystemController {
	a := &SystemController{
		viewService:   viewService,
		systemService: systemService,
	}
	a.initRouter(g)
	return a
}

func (a *SystemController) initRouter(g *gin.RouterGroup) {
	g.GET("/showcase", a.showcase)
	g.GET("/library", a.library)
	g.GET("/changelog", a.changelog)
	g.GET("/announcement", a.announcement)
}

func (a *SystemController) showcase(c *gin.Context) {
	jsonObj(c, a.viewService.Showcase())
}

func (a *SystemController) library(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	jsonObj(c, a.viewService.Gallery(page))
}

func (a *SystemController) changelog(c *gin.Context) {
	jsonObj(c, a.systemService.GetChangelog())
}

func (a *SystemController) announcement(c *gin.Context) {
	jsonObj(c, a.systemService.GetAnnouncement())
}
