package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/anonto42/career-hub/backend/internal/realtime"
)

// WebSocketHandler upgrades authenticated requests onto the push channels
type WebSocketHandler struct {
	notifications *realtime.Hub
	chat          *realtime.Hub
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(notifications, chat *realtime.Hub) *WebSocketHandler {
	return &WebSocketHandler{notifications: notifications, chat: chat}
}

// RegisterWebSocketRoutes registers the push channel endpoints
func (h *WebSocketHandler) RegisterWebSocketRoutes(g *echo.Group) {
	g.GET("/notifications", h.serve(h.notifications))
	g.GET("/chat", h.serve(h.chat))
}

func (h *WebSocketHandler) serve(hub *realtime.Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := requireUserID(c)
		if err != nil {
			return err
		}
		// the upgrader writes its own error response
		_ = hub.Serve(c.Response(), c.Request(), userID)
		return nil
	}
}
