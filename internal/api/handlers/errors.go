package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mafia_web/internal/middleware"
	"mafia_web/internal/models"
	"mafia_web/internal/service"
)

var statusByKind = map[service.ErrorKind]int{
	service.KindValidation:    http.StatusBadRequest,
	service.KindCredentials:   http.StatusUnauthorized,
	service.KindAuthorization: http.StatusForbidden,
	service.KindNotFound:      http.StatusNotFound,
	service.KindConflict:      http.StatusConflict,
}

// respondError 將服務層錯誤轉為 HTTP 回應，未知錯誤記錄後回傳 500
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		status, ok := statusByKind[svcErr.Kind]
		if ok {
			c.JSON(status, gin.H{"error": svcErr.Message})
			return
		}
	}

	_ = c.Error(err)
	log.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// currentUser 取出驗證中間件放入的用戶，缺少時直接回應 401
func currentUser(c *gin.Context) (*models.User, bool) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return nil, false
	}
	return user, true
}
