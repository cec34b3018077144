package controller

import (
	"net/http"

	"gacha-system/web/service"

	"github.com/gin-gonic/gin"
)

type GachaController struct {
	BaseController

	gachaService *service.GachaService
}

func NewGachaController(g *gin.RouterGroup, gachaService *service.GachaService) *GachaController {
	a := &GachaController{
		gachaService: gachaService,
	}
	a.initRouter(g)
	return a
}

func (a *GachaController) initRouter(g *gin.RouterGroup) {
	g.GET("/draw", a.draw)
	g.POST("/draw/limited", a.drawLimited)
	g.POST("/shop/buy", a.shopBuy)
	g.POST("/user/craft", a.craft)
	g.POST("/game/dice", a.dice)
}

func (a *GachaController) draw(c *gin.Context) {
	username, ok := a.requireUser(c)
	if !ok {
		return
	}
	result, err := a.gachaService.Draw(username)
	if err != nil {
		jsonGameError(c, err)
		return
	}
	jsonObj(c, result)
}

func (a *GachaController) drawLimited(c *gin.Context) {
	username, ok := a.requireUser(c)
	if !ok {
		return
	}
	result, err := a.gachaService.DrawLimited(username)
	if err != nil {
		jsonGameError(c, err)
		return
	}
	jsonObj(c, result)
}

func (a *GachaController) shopBuy(c *gin.Context) {
	username, ok := a.requireUser(c)
	if !ok {
		return
	}
	var req struct {
		TargetRarity string `json:"targetRarity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonErrorMsg(c, http.StatusBadRequest, "invalid request")
		return
	}
	result, err := a.gachaService.Buy(username, req.TargetRarity)
	if err != nil {
		jsonGameError(c, err)
		return
	}
	jsonObj(c, result)
}

func (a *GachaController) craft(c *gin.Context) {
	username, ok := a.requireUser(c)
	if !ok {
		return
	}
	var req struct {
		TargetRarity string `json:"targetRarity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonErrorMsg(c, http.StatusBadRequest, "invalid request")
		return
	}
	result, err := a.gachaService.Craft(username, req.TargetRarity)
	if err != nil {
		jsonGameError(c, err)
		return
	}
	jsonObj(c, result)
}

func (a *GachaController) dice(c *gin.Context) {
	username, ok := a.requireUser(c)
	if !ok {
		return
	}
	var req struct {
		BetAmount  int64  `json:"betAmount"`
		Prediction string `json:"prediction"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonErrorMsg(c, http.StatusBadRequest, "invalid request")
		return
	}
	result, err := a.gachaService.Dice(username, req.BetAmount, req.Prediction)
	if err != nil {
		jsonGameError(c, err)
		return
	}
	jsonObj(c, result)
}
