package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/career-hub/backend/internal/apperrors"
	"github.com/anonto42/career-hub/backend/internal/models"
	"github.com/anonto42/career-hub/backend/internal/services"
)

// Connection endpoints keep their established status codes: a state
// conflict is 400 and acting on someone else's connection is 401.
var connectionStatusOverrides = []apperrors.Override{
	apperrors.WithStatus(apperrors.KindConflict, http.StatusBadRequest),
	apperrors.WithStatus(apperrors.KindForbidden, http.StatusUnauthorized),
}

// ConnectionHandler handles connection requests between users
type ConnectionHandler struct {
	connectionService *services.ConnectionService
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(connectionService *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connectionService: connectionService}
}

// RegisterConnectionRoutes registers connection-related routes
func (h *ConnectionHandler) RegisterConnectionRoutes(g *echo.Group) {
	g.GET("/connections", h.list(services.ListAccepted))
	g.GET("/connections/pending", h.list(services.ListPendingReceived))
	g.GET("/connections/sent", h.list(services.ListSent))
	g.GET("/connections/received", h.list(services.ListReceived))
	g.GET("/connections/accepted", h.GetAcceptedUsers)
	g.POST("/connections", h.CreateConnection)
	g.PUT("/connections/:id", h.RespondToConnection)
	g.DELETE("/connections/:id", h.DeleteConnection)
	g.POST("/connections/:id/block", h.BlockConnection)
}

// CreateConnection sends a connection request
func (h *ConnectionHandler) CreateConnection(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req models.CreateConnectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.connectionService.Create(c.Request().Context(), userID, req.ReceiverID)
	if err != nil {
		return apperrors.ToHTTP(err, connectionStatusOverrides...)
	}
	return success(c, http.StatusCreated, result)
}

// RespondToConnection accepts or declines a pending request
func (h *ConnectionHandler) RespondToConnection(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req models.RespondConnectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.connectionService.Respond(c.Request().Context(), id, userID, *req.Accept); err != nil {
		return apperrors.ToHTTP(err, connectionStatusOverrides...)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ConnectionHandler) DeleteConnection(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.connectionService.Delete(c.Request().Context(), id, userID); err != nil {
		return apperrors.ToHTTP(err, connectionStatusOverrides...)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ConnectionHandler) BlockConnection(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.connectionService.Block(c.Request().Context(), id, userID); err != nil {
		return apperrors.ToHTTP(err, connectionStatusOverrides...)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ConnectionHandler) list(which services.ConnectionList) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := requireUserID(c)
		if err != nil {
			return err
		}
		conns, err := h.connectionService.List(c.Request().Context(), userID, which)
		if err != nil {
			return apperrors.ToHTTP(err)
		}
		return success(c, http.StatusOK, conns)
	}
}

// GetAcceptedUsers lists the users the caller is connected with
func (h *ConnectionHandler) GetAcceptedUsers(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	users, err := h.connectionService.AcceptedUsers(c.Request().Context(), userID)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return success(c, http.StatusOK, users)
}
