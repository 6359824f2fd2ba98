package handler

import (
	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/remiriasukaretto/tokumei/internal/hub"
	"github.com/remiriasukaretto/tokumei/internal/service"
	"github.com/remiriasukaretto/tokumei/pkg/log"
)

// SSEHandler streams board events to viewers over Server-Sent Events.
type SSEHandler struct {
	board service.BoardService
}

// NewSSEHandler creates a new SSE handler.
func NewSSEHandler(board service.BoardService) *SSEHandler {
	return &SSEHandler{board: board}
}

// RegisterRoutes registers the event-stream route.
func (h *SSEHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/events", h.HandleStream)
}

// HandleStream replays the backlog and then pushes live events until the
// client disconnects or the subscriber is evicted. One SSE message per
// event: the event field carries the kind, the data field the payload.
func (h *SSEHandler) HandleStream(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	sub, backlog := h.board.Subscribe(ctx)
	defer sub.Close()

	l.Info().Str(log.FieldSubscriberID, sub.ID).Int("backlog", len(backlog)).Msg("sse subscriber connected")

	c.Writer.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeaderNow()

	for _, evt := range backlog {
		if !h.write(c, evt) {
			return
		}
	}
	c.Writer.Flush()

	for {
		select {
		case <-ctx.Done():
			l.Info().Str(log.FieldSubscriberID, sub.ID).Msg("sse subscriber disconnected")
			return
		case evt, ok := <-sub.Events():
			if !ok {
				// Evicted by the hub.
				l.Info().Str(log.FieldSubscriberID, sub.ID).Msg("sse subscriber evicted")
				return
			}
			if !h.write(c, evt) {
				return
			}
			c.Writer.Flush()
		}
	}
}

func (h *SSEHandler) write(c *gin.Context, evt hub.Event) bool {
	err := sse.Encode(c.Writer, sse.Event{
		Event: evt.Kind,
		Data:  string(evt.Data),
	})
	return err == nil
}
