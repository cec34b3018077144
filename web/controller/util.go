package controller

import (
	"errors"
	"net/http"

	"gacha-system/logger"
	"gacha-system/web/service"

	"github.com/gin-gonic/gin"
)

func jsonObj(c *gin.Context, obj any) {
	c.JSON(http.StatusOK, obj)
}

func jsonErrorMsg(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func statusForKind(kind service.ErrorKind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindInsufficientFunds, service.KindInsufficientMaterials, service.KindInvalidCredentials:
		return http.StatusForbidden
	case service.KindInvalidTier, service.KindInvalidRequest, service.KindInvalidBet:
		return http.StatusBadRequest
	case service.KindNameTaken:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// jsonGameError renders a typed game error as {kind, detail} with the
// matching status. Anything untyped is a real server fault.
func jsonGameError(c *gin.Context, err error) {
	var gameErr *service.GameError
	if errors.As(err, &gameErr) {
		c.JSON(statusForKind(gameErr.Kind), gameErr)
		return
	}
	logger.Error("unhandled error: ", err)
	jsonErrorMsg(c, http.StatusInternalServerError, "Internal Server Error")
}
