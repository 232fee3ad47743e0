package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"mafia_web/internal/service"
)

// 定義 WebSocket 升級器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 來源限制交由 CORS 設定處理
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LobbyHandler 處理房間大廳的 WebSocket 連線
type LobbyHandler struct {
	hub         *service.LobbyHub
	roomService *service.RoomService
	log         *zap.Logger
}

// NewLobbyHandler 創建一個新的 LobbyHandler 實例
func NewLobbyHandler(hub *service.LobbyHub, roomService *service.RoomService, log *zap.Logger) *LobbyHandler {
	return &LobbyHandler{hub: hub, roomService: roomService, log: log}
}

// HandleWebSocket 先確認呼叫者是成員或建立者，再升級連線
func (h *LobbyHandler) HandleWebSocket(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	roomID, err := h.roomService.AuthorizeLobby(c.Request.Context(), user.ID, c.Param("join_code"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 失敗時已回應用戶端
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.Serve(conn, roomID, user.ID, user.Username)
}
