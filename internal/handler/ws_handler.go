package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/remiriasukaretto/tokumei/internal/config"
	"github.com/remiriasukaretto/tokumei/internal/hub"
	"github.com/remiriasukaretto/tokumei/internal/service"
	"github.com/remiriasukaretto/tokumei/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsFrame is one event as sent over the WebSocket feed.
type wsFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// WSHandler streams board events over WebSocket. The host view uses this
// feed; it carries exactly the same events as the SSE stream.
type WSHandler struct {
	board service.BoardService
	cfg   config.WebSocketConfig
}

// NewWSHandler creates a new WebSocket handler.
func NewWSHandler(board service.BoardService, cfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{board: board, cfg: cfg}
}

// RegisterRoutes registers the WebSocket route.
func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket upgrades the connection and starts the read/write pumps.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	sub, backlog := h.board.Subscribe(ctx)
	l.Info().Str(log.FieldSubscriberID, sub.ID).Int("backlog", len(backlog)).Msg("ws subscriber connected")

	go h.writePump(conn, sub, backlog)
	go h.readPump(conn, sub)
}

// writePump delivers the backlog and then live events, interleaved with
// pings. It owns all writes on the connection.
func (h *WSHandler) writePump(conn *websocket.Conn, sub *hub.Subscriber, backlog []hub.Event) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for _, evt := range backlog {
		if err := h.writeFrame(conn, evt); err != nil {
			return
		}
	}

	for {
		select {
		case evt, ok := <-sub.Events():
			conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteWait))
			if !ok {
				// Evicted by the hub.
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := h.writeFrame(conn, evt); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) writeFrame(conn *websocket.Conn, evt hub.Event) error {
	conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteWait))
	return conn.WriteJSON(wsFrame{
		Type:    evt.Kind,
		Payload: evt.Data,
	})
}

// readPump discards inbound frames and detects disconnection. A broken
// connection unsubscribes the client so the hub never broadcasts to a
// dead connection.
func (h *WSHandler) readPump(conn *websocket.Conn, sub *hub.Subscriber) {
	defer func() {
		sub.Close()
		conn.Close()
	}()

	conn.SetReadLimit(h.cfg.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				l := log.L()
				l.Debug().Err(err).Str(log.FieldSubscriberID, sub.ID).Msg("websocket read error")
			}
			return
		}
	}
}
