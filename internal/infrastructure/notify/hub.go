package notify

import (
	"encoding/json"
	"sync"
	"time"
)

// 事件类型
const (
	EventAdded     = "event_added"
	IndexRebuilt   = "index_rebuilt"
	TurnFailed     = "turn_failed"
	SettingsSaved  = "settings_saved"
	HistoryCleared = "history_cleared"
)

// Notification 推送给前端的通知
type Notification struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// Hub WebSocket 连接管理中心
// 本地单用户服务，所有连接属于同一个受众
type Hub struct {
	// 活跃连接
	connections map[*Connection]bool
	// 注册连接
	register chan *Connection
	// 注销连接
	unregister chan *Connection
	// 广播消息
	broadcast chan []byte
	mu        sync.RWMutex
}

// Connection WebSocket 连接
type Connection struct {
	Send chan []byte
}

// NewConnection 创建连接
func NewConnection() *Connection {
	return &Connection{
		Send: make(chan []byte, 16),
	}
}

// NewHub 创建 Hub
func NewHub() *Hub {
	return &Hub{
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan []byte),
	}
}

// Run 运行 Hub（需要在 goroutine 中运行）
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.connections[conn]; ok {
				delete(h.connections, conn)
				close(conn.Send)
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.connections {
				select {
				case conn.Send <- data:
				default:
					close(conn.Send)
					delete(h.connections, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Start 启动 Hub（启动后台 goroutine）
func (h *Hub) Start() {
	go h.Run()
}

// Register 注册连接
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister 注销连接
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Broadcast 向所有连接广播通知
// 没有连接时消息被丢弃，不是错误
func (h *Hub) Broadcast(eventType string, payload interface{}) error {
	data, err := json.Marshal(&Notification{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	h.broadcast <- data
	return nil
}
