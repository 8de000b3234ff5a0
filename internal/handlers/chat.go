package handlers

import (
	"io"
	"net/http"
	"time"

	"commons/internal/middleware"
	"commons/internal/services"
	"commons/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	chatEventName     = "chat:new"
	heartbeatInterval = 25 * time.Second
)

type ChatHandler struct {
	chat *services.ChatService
	hub  *services.Hub
	log  *zap.Logger
}

func NewChatHandler(chat *services.ChatService, hub *services.Hub, log *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, hub: hub, log: log}
}

func (h *ChatHandler) Page(c *gin.Context) {
	Render(c, http.StatusOK, "chat/index.html", nil)
}

// History returns recent messages oldest first.
func (h *ChatHandler) History(c *gin.Context) {
	messages, err := h.chat.RecentHistory(c.Request.Context(), utils.StringToInt(c.Query("limit")))
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type chatPostRequest struct {
	Body string `json:"body" form:"body"`
}

func (h *ChatHandler) Post(c *gin.Context) {
	var req chatPostRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid request.")
		return
	}

	claims := middleware.CurrentClaims(c)
	ev, err := h.chat.Post(c.Request.Context(), claims.UserID, req.Body)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// Stream pushes new chat messages to the client as server-sent events until
// the client disconnects. Events sent while the client was away are not
// replayed; clients load History on connect.
func (h *ChatHandler) Stream(c *gin.Context) {
	events, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	h.log.Debug("Chat client connected", zap.Int("clients", h.hub.Clients()))
	c.SSEvent("ready", gin.H{"clients": h.hub.Clients()})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(chatEventName, ev)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		case <-ctx.Done():
			return false
		}
	})
}
