package realtime

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/anonto42/career-hub/backend/pkg/logger"
)

// Push event names
const (
	EventReceiveNotification = "ReceiveNotification"
	EventReceiveMessage      = "ReceiveMessage"
	EventMessagesRead        = "MessagesRead"
	EventError               = "Error"
)

// Inbound frame names on the chat channel
const (
	FrameSendMessage = "SendMessage"
	FrameMessageRead = "MessageRead"
)

// FrameHandler processes one inbound frame from userID. A returned error is
// reported back to the sending session as an Error event.
type FrameHandler func(ctx context.Context, userID uint, frame Frame) error

// Hub upgrades HTTP requests into sessions of one registry.
type Hub struct {
	registry *Registry
	upgrader websocket.Upgrader
	onFrame  FrameHandler
}

// NewHub builds a hub for registry. An empty allowedOrigins or one holding
// "*" accepts any origin.
func NewHub(registry *Registry, allowedOrigins []string, onFrame FrameHandler) *Hub {
	return &Hub{
		registry: registry,
		onFrame:  onFrame,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

func (h *Hub) Registry() *Registry { return h.registry }

// Serve upgrades the request, joins the session to the user's group and
// blocks until the connection ends. On an upgrade failure the upgrader has
// already written the HTTP error.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID uint) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := newClient(userID, conn)
	h.registry.Join(userID, client)
	log := logger.Log.WithFields(logrus.Fields{"registry": h.registry.name, "userId": userID, "session": client.id})
	log.Info("websocket connected")

	defer func() {
		h.registry.Leave(userID, client.id)
		client.close()
		log.Info("websocket disconnected")
	}()

	go client.writePump()

	var handle func(Frame)
	if h.onFrame != nil {
		ctx := r.Context()
		handle = func(frame Frame) {
			if err := h.onFrame(ctx, userID, frame); err != nil {
				log.WithField("event", frame.Event).WithError(err).Debug("frame rejected")
				_ = client.Send(EventError, map[string]string{"event": frame.Event, "message": err.Error()})
			}
		}
	}
	client.readPump(handle)
	return nil
}
