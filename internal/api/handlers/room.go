package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mafia_web/internal/service"
)

// RoomHandler 處理與遊戲房間相關的請求
type RoomHandler struct {
	roomService *service.RoomService
	log         *zap.Logger
}

// NewRoomHandler 創建一個新的 RoomHandler 實例
func NewRoomHandler(roomService *service.RoomService, log *zap.Logger) *RoomHandler {
	return &RoomHandler{roomService: roomService, log: log}
}

// CreateRoomInput 定義建立房間的請求結構
type CreateRoomInput struct {
	Type        string `json:"type"`
	RoolSetID   uint   `json:"rool_set_id" binding:"required"`
	Password    string `json:"password"`
	PlayerLimit *int   `json:"player_limit"`
}

// CreateRoom 處理創建新房間的請求
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input CreateRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), user.ID, service.CreateRoomInput{
		Type:        input.Type,
		RoolSetID:   input.RoolSetID,
		Password:    input.Password,
		PlayerLimit: input.PlayerLimit,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, room)
}

// JoinRoom 處理加入房間的請求，密碼由表單欄位 password 提供
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	err := h.roomService.JoinRoom(c.Request.Context(), user.ID, c.Param("join_code"), c.PostForm("password"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetRoom 處理獲取房間詳細資料的請求
func (h *RoomHandler) GetRoom(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	room, err := h.roomService.GetRoom(c.Request.Context(), user.ID, c.Param("join_code"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// ListRooms 列出公開房間，支援 limit 與 offset 查詢參數
func (h *RoomHandler) ListRooms(c *gin.Context) {
	limit, err := intQuery(c, "limit")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}
	offset, err := intQuery(c, "offset")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be an integer"})
		return
	}

	rooms, err := h.roomService.ListPublicRooms(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func intQuery(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
