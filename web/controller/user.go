package controller

import (
	"net/http"

	"gacha-system/config"
	"gacha-system/web/service"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	BaseController

	gameConfig   *config.GameConfig
	userService  *service.UserService
	gachaService *service.GachaService
}

func NewUserController(g *gin.RouterGroup, gameConfig *config.GameConfig, userService *service.UserService, gachaService *service.GachaService) *UserController {
	a := &UserController{
		gameConfig:   gameConfig,
		userService:  userService,
		gachaService: gachaService,
	}
	a.initRouter(g)
	return a
}

func (a *UserController) initRouter(g *gin.RouterGroup) {
	g.POST("/auth/register", a.register)
	g.POST("/auth/login", a.login)
	g.GET("/user/info", a.info)
	g.POST("/user/update-profile", a.updateProfile)
}

func (a *UserController) register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Nickname string `json:"nickname"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonErrorMsg(c, http.StatusBadRequest, "invalid request")
		return
	}
	user, err := a.userService.Register(req.Username, req.Nickname, req.Password)
	if err != nil {
		jsonGameError(c, err)
		return
	}
	jsonObj(c, gin.H{
		"success":  true,
		"username": user.Username,
		"nickname": user.Nickname,
	})
}

func (a *UserController) login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonErrorMsg(c, http.StatusBadRequest, "invalid request")
		return
	}
	user, err := a.userService.Login(req.Username, req.Password)
	if err != nil {
		jsonGameError(c, err)
		return
	}
	jsonObj(c, gin.H{
		"success": true,
		"user": gin.H{
			"username": user.Username,
			"nickname": user.Nickname,
			"coins":    user.Coins,
		},
	})
}

// info returns the profile, or null for an anonymous request, and
// opportunistically warms the prefetch slot.
func (a *UserController) info(c *gin.Context) {
	username := a.userID(c)
	if username == "" {
		jsonObj(c, nil)
		return
	}
	info, err := a.userService.Info(username)
	if err != nil {
		jsonGameError(c, err)
		return
	}
	if info == nil {
		jsonObj(c, nil)
		return
	}
	if a.gameConfig.Preload {
		a.gachaService.ScheduleRefill(username)
	}
	jsonObj(c, info)
}

func (a *UserController) updateProfile(c *gin.Context) {
	username, ok := a.requireUser(c)
	if !ok {
		return
	}
	var req struct {
		Nickname string `json:"nickname"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonErrorMsg(c, http.StatusBadRequest, "invalid request")
		return
	}
	user, err := a.userService.UpdateProfile(username, req.Nickname, req.Password)
	if err != nil {
		jsonGameError(c, err)
		return
	}
	jsonObj(c, gin.H{
		"success": true,
		"user":    gin.H{"nickname": user.Nickname},
	})
}
