package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dom/movie-catalog/internal/api/middleware"
	"github.com/dom/movie-catalog/internal/websocket"
	ws "github.com/gorilla/websocket"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type WebSocketHandler struct {
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *websocket.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
	}
}

// Handle subscribes the caller to the catalog feed. The feed is public; the
// username is only kept for logging.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	username := ""
	if user, ok := middleware.GetSessionUser(r.Context()); ok {
		username = user.Username
	}

	client := websocket.NewClient(h.hub, conn, username)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
