package service

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"mafia_web/internal/metric"
)

const (
	EventPlayerJoined       = "player_joined"
	EventPlayerConnected    = "player_connected"
	EventPlayerDisconnected = "player_disconnected"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 64
)

// LobbyEvent 推送給房間大廳的事件
type LobbyEvent struct {
	Type        string    `json:"type"`
	RoomID      uint      `json:"room_id"`
	UserID      uint      `json:"user_id"`
	Username    string    `json:"username"`
	PlayerCount int64     `json:"player_count"`
	Timestamp   time.Time `json:"timestamp"`
}

// lobbyClient 代表一個大廳 WebSocket 連線
type lobbyClient struct {
	conn     *websocket.Conn
	userID   uint
	username string
	roomID   uint
	send     chan *LobbyEvent
}

// LobbyHub 管理每個房間的大廳連線並廣播成員事件
type LobbyHub struct {
	clients map[uint]map[*lobbyClient]bool // roomID -> client -> bool
	mu      sync.RWMutex
	log     *zap.Logger
}

func NewLobbyHub(log *zap.Logger) *LobbyHub {
	return &LobbyHub{
		clients: make(map[uint]map[*lobbyClient]bool),
		log:     log,
	}
}

// Serve 處理一個已升級的連線，直到連線關閉才返回
func (h *LobbyHub) Serve(conn *websocket.Conn, roomID, userID uint, username string) {
	client := &lobbyClient{
		conn:     conn,
		userID:   userID,
		username: username,
		roomID:   roomID,
		send:     make(chan *LobbyEvent, sendBufferSize),
	}

	h.register(client)
	metric.IncLobbyConnections()
	h.Broadcast(h.presenceEvent(EventPlayerConnected, client))

	go h.writePump(client)
	h.readPump(client)

	h.unregister(client)
	conn.Close()
	metric.DecLobbyConnections()
	h.Broadcast(h.presenceEvent(EventPlayerDisconnected, client))
}

func (h *LobbyHub) presenceEvent(kind string, c *lobbyClient) LobbyEvent {
	return LobbyEvent{
		Type:      kind,
		RoomID:    c.roomID,
		UserID:    c.userID,
		Username:  c.username,
		Timestamp: time.Now().UTC(),
	}
}

// readPump 大廳只由伺服器推送，讀取僅用於維持心跳與偵測斷線
func (h *LobbyHub) readPump(c *lobbyClient) {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("lobby connection closed unexpectedly",
					zap.Uint("room_id", c.roomID),
					zap.Uint("user_id", c.userID),
					zap.Error(err),
				)
			}
			return
		}
	}
}

func (h *LobbyHub) writePump(c *lobbyClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			payload, err := json.Marshal(event)
			if err != nil {
				h.log.Error("lobby event encoding error", zap.Error(err))
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Broadcast 將事件送給房間內所有連線，發送佇列已滿的連線會被中斷
func (h *LobbyHub) Broadcast(event LobbyEvent) {
	var slow []*lobbyClient

	h.mu.RLock()
	for client := range h.clients[event.RoomID] {
		select {
		case client.send <- &event:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.log.Warn("dropping slow lobby client",
			zap.Uint("room_id", client.roomID),
			zap.Uint("user_id", client.userID),
		)
		h.unregister(client)
		client.conn.Close()
	}
}

func (h *LobbyHub) register(c *lobbyClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.roomID] == nil {
		h.clients[c.roomID] = make(map[*lobbyClient]bool)
	}
	h.clients[c.roomID][c] = true
}

// unregister 移除連線並關閉其發送通道，重複呼叫無作用
func (h *LobbyHub) unregister(c *lobbyClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[c.roomID]
	if !ok || !clients[c] {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.clients, c.roomID)
	}
}

// ClientCount 回傳房間目前的大廳連線數
func (h *LobbyHub) ClientCount(roomID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[roomID])
}
