package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/career-hub/backend/internal/apperrors"
	"github.com/anonto42/career-hub/backend/internal/models"
	"github.com/anonto42/career-hub/backend/internal/realtime"
	"github.com/anonto42/career-hub/backend/internal/services"
)

// ChatHandler handles direct messages over REST and the chat socket
type ChatHandler struct {
	chatService *services.ChatService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// RegisterChatRoutes registers chat routes
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.POST("/chat/send", h.SendMessage)
	g.GET("/chat/users", h.GetChatUsers)
	g.GET("/chat/history/:otherUserId", h.GetChatHistory)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.chatService.Send(c.Request().Context(), userID, req)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return success(c, http.StatusOK, msg)
}

func (h *ChatHandler) GetChatUsers(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	users, err := h.chatService.Users(c.Request().Context(), userID)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return success(c, http.StatusOK, users)
}

// GetChatHistory returns the thread with another user and marks the
// messages received from them as read.
func (h *ChatHandler) GetChatHistory(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	otherID, err := parseIDParam(c, "otherUserId")
	if err != nil {
		return err
	}
	msgs, err := h.chatService.History(c.Request().Context(), userID, otherID)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return success(c, http.StatusOK, msgs)
}

type messageReadFrame struct {
	MessageID uint `json:"messageId"`
}

// HandleFrame processes inbound frames on the chat socket. SendMessage goes
// through the same path as POST /chat/send.
func (h *ChatHandler) HandleFrame(ctx context.Context, userID uint, frame realtime.Frame) error {
	switch frame.Event {
	case realtime.FrameSendMessage:
		var req models.SendMessageRequest
		if err := json.Unmarshal(frame.Data, &req); err != nil {
			return errors.New("invalid SendMessage payload")
		}
		_, err := h.chatService.Send(ctx, userID, req)
		return frameError(err)
	case realtime.FrameMessageRead:
		var req messageReadFrame
		if err := json.Unmarshal(frame.Data, &req); err != nil || req.MessageID == 0 {
			return errors.New("invalid MessageRead payload")
		}
		return frameError(h.chatService.MarkMessageRead(ctx, userID, req.MessageID))
	default:
		return fmt.Errorf("unknown event %q", frame.Event)
	}
}

// frameError reduces err to the message a REST client would see.
func frameError(err error) error {
	if err == nil {
		return nil
	}
	var httpErr *echo.HTTPError
	if errors.As(apperrors.ToHTTP(err), &httpErr) {
		return fmt.Errorf("%v", httpErr.Message)
	}
	return err
}
