package controller

import (
	"net/http"

	"gacha-system/config"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type BaseController struct{}

// userID reads the acting identity from the X-User-ID header the
// client sets after login.
func (a *BaseController) userID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}

func (a *BaseController) requireUser(c *gin.Context) (string, bool) {
	username := a.userID(c)
	if username == "" {
		jsonErrorMsg(c, http.StatusForbidden, "not logged in")
		return "", false
	}
	return username, true
}

// isAdmin accepts either the admin password from the request body or
// a session previously marked by a successful verify.
func (a *BaseController) isAdmin(c *gin.Context, password string) bool {
	adminPassword := config.GetAdminPassword()
	if adminPassword == "" {
		return false
	}
	if password != "" {
		return password == adminPassword
	}
	session := sessions.Default(c)
	admin, ok := session.Get("admin").(bool)
	return ok && admin
}

func (a *BaseController) markAdmin(c *gin.Context) {
	session := sessions.Default(c)
	session.Set("admin", true)
	session.Save()
}
