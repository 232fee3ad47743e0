package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mafia_web/internal/service"
)

// RoolSetHandler 提供規則組目錄
type RoolSetHandler struct {
	roolSetService *service.RoolSetService
	log            *zap.Logger
}

func NewRoolSetHandler(roolSetService *service.RoolSetService, log *zap.Logger) *RoolSetHandler {
	return &RoolSetHandler{roolSetService: roolSetService, log: log}
}

func (h *RoolSetHandler) List(c *gin.Context) {
	sets, err := h.roolSetService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sets)
}

func (h *RoolSetHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rool set id"})
		return
	}

	set, err := h.roolSetService.Get(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, set)
}
