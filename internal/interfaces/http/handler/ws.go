package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/calenchat/backend/internal/infrastructure/log"
	"github.com/calenchat/backend/internal/infrastructure/notify"
)

// 写超时与心跳间隔
const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

// WSHandler WebSocket 推送处理器
// 前端通过该连接接收事件新增、索引重建等通知
type WSHandler struct {
	hub      *notify.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWSHandler 创建 WebSocket 推送处理器
func NewWSHandler(hub *notify.Hub) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 本地单用户服务，不校验来源
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: log.NewModuleLogger("http", "ws"),
	}
}

// Serve 升级连接并开始推送
// GET /ws
func (h *WSHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	wsConn := notify.NewConnection()
	h.hub.Register(wsConn)

	go h.writePump(conn, wsConn)
	go h.readPump(conn, wsConn)
}

// writePump 把 Hub 广播的消息写入连接
func (h *WSHandler) writePump(conn *websocket.Conn, wsConn *notify.Connection) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case data, ok := <-wsConn.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				// Hub 已注销该连接
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 消费客户端消息并在断开时注销连接
// 推送是单向的，收到的消息一律丢弃
func (h *WSHandler) readPump(conn *websocket.Conn, wsConn *notify.Connection) {
	defer func() {
		h.hub.Unregister(wsConn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("connection read error", "error", err)
			}
			return
		}
	}
}
