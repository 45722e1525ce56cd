package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/anonto42/career-hub/backend/internal/apperrors"
	"github.com/anonto42/career-hub/backend/internal/models"
	"github.com/anonto42/career-hub/backend/internal/repositories"
)

var existingConnectionMessages = map[models.ConnectionStatus]string{
	models.ConnectionBlocked:  "connection is blocked",
	models.ConnectionPending:  "already pending",
	models.ConnectionAccepted: "already connected",
	models.ConnectionDeclined: "connection already exists",
}

// ConnectionService runs the connection state machine
type ConnectionService struct {
	connections repositories.ConnectionRepository
	users       repositories.UserRepository
	notifier    *Notifier
}

func NewConnectionService(connections repositories.ConnectionRepository, users repositories.UserRepository, notifier *Notifier) *ConnectionService {
	return &ConnectionService{connections: connections, users: users, notifier: notifier}
}

// Create sends a connection request from requesterID to receiverID.
func (s *ConnectionService) Create(ctx context.Context, requesterID, receiverID uint) (*models.ConnectionResult, error) {
	if requesterID == receiverID {
		return nil, apperrors.Conflict("cannot connect with yourself")
	}
	requester, err := loadActor(ctx, s.users, requesterID)
	if err != nil {
		return nil, err
	}
	receiver, err := s.users.GetUserByID(ctx, receiverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("receiver not found")
		}
		return nil, apperrors.Internal("failed to load receiver", err)
	}

	existing, err := s.connections.FindBetween(ctx, requesterID, receiverID)
	switch {
	case err == nil:
		return nil, apperrors.Conflict(existingConnectionMessages[existing.Status])
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.Internal("failed to check existing connection", err)
	}

	conn := &models.Connection{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      models.ConnectionPending,
	}
	if err := s.connections.CreateConnection(ctx, conn); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("connection already exists")
		}
		return nil, apperrors.Internal("failed to create connection", err)
	}

	s.notifier.Notify(ctx, NotificationEvent{
		RecipientID:     receiverID,
		Actor:           requester,
		Kind:            models.NotificationConnectionRequest,
		RelatedEntityID: uintPtr(conn.ID),
		Message:         "sent you a connection request",
		Extra: map[string]interface{}{
			"connectionId":     conn.ID,
			"connectionStatus": string(conn.Status),
		},
	})

	return &models.ConnectionResult{
		Connection: *conn,
		Requester:  requester.ToCompact(),
		Receiver:   receiver.ToCompact(),
	}, nil
}

func (s *ConnectionService) load(ctx context.Context, id uint) (*models.Connection, error) {
	conn, err := s.connections.GetConnectionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("connection not found")
		}
		return nil, apperrors.Internal("failed to load connection", err)
	}
	return conn, nil
}

// Respond accepts or declines a pending request. Only the receiver may
// respond, and only once.
func (s *ConnectionService) Respond(ctx context.Context, connectionID, responderID uint, accept bool) error {
	conn, err := s.load(ctx, connectionID)
	if err != nil {
		return err
	}
	if conn.ReceiverID != responderID {
		return apperrors.Forbidden("only the receiver can respond to this request")
	}
	if conn.Status != models.ConnectionPending {
		return apperrors.Conflict("connection request is not pending")
	}

	next := models.ConnectionDeclined
	if accept {
		next = models.ConnectionAccepted
	}
	ok, err := s.connections.TransitionStatus(ctx, conn.ID, []models.ConnectionStatus{models.ConnectionPending}, next)
	if err != nil {
		return apperrors.Internal("failed to update connection", err)
	}
	if !ok {
		return apperrors.Conflict("connection request is not pending")
	}

	if accept {
		responder, err := loadActor(ctx, s.users, responderID)
		if err != nil {
			return err
		}
		s.notifier.Notify(ctx, NotificationEvent{
			RecipientID:     conn.RequesterID,
			Actor:           responder,
			Kind:            models.NotificationConnectionAccepted,
			RelatedEntityID: uintPtr(conn.ID),
			Message:         "accepted your connection request",
			Extra: map[string]interface{}{
				"connectionId":     conn.ID,
				"connectionStatus": string(models.ConnectionAccepted),
			},
		})
	}
	return nil
}

// Delete removes the connection whatever its state. Either party may do it.
func (s *ConnectionService) Delete(ctx context.Context, connectionID, actorID uint) error {
	conn, err := s.load(ctx, connectionID)
	if err != nil {
		return err
	}
	if !conn.Involves(actorID) {
		return apperrors.Forbidden("not a party to this connection")
	}
	if err := s.connections.DeleteConnection(ctx, conn.ID); err != nil {
		return apperrors.Internal("failed to delete connection", err)
	}
	return nil
}

// Block moves the connection to the terminal Blocked state.
func (s *ConnectionService) Block(ctx context.Context, connectionID, actorID uint) error {
	conn, err := s.load(ctx, connectionID)
	if err != nil {
		return err
	}
	if !conn.Involves(actorID) {
		return apperrors.Forbidden("not a party to this connection")
	}
	if !conn.Status.CanTransitionTo(models.ConnectionBlocked) {
		return apperrors.Conflict("connection is already blocked")
	}
	from := []models.ConnectionStatus{models.ConnectionPending, models.ConnectionAccepted, models.ConnectionDeclined}
	ok, err := s.connections.TransitionStatus(ctx, conn.ID, from, models.ConnectionBlocked)
	if err != nil {
		return apperrors.Internal("failed to block connection", err)
	}
	if !ok {
		return apperrors.Conflict("connection is already blocked")
	}
	return nil
}

// ConnectionList selects which of a user's connections to list
type ConnectionList int

const (
	ListAccepted ConnectionList = iota
	ListPendingReceived
	ListSent
	ListReceived
)

// List returns the selected connections with both parties expanded.
func (s *ConnectionService) List(ctx context.Context, userID uint, which ConnectionList) ([]models.ConnectionResult, error) {
	var (
		conns []models.Connection
		err   error
	)
	switch which {
	case ListPendingReceived:
		conns, err = s.connections.ListPendingReceived(ctx, userID)
	case ListSent:
		conns, err = s.connections.ListSent(ctx, userID)
	case ListReceived:
		conns, err = s.connections.ListReceived(ctx, userID)
	default:
		conns, err = s.connections.ListAccepted(ctx, userID)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to list connections", err)
	}

	ids := make([]uint, 0, len(conns)*2)
	for _, c := range conns {
		ids = append(ids, c.RequesterID, c.ReceiverID)
	}
	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal("failed to load users", err)
	}

	results := make([]models.ConnectionResult, 0, len(conns))
	for _, c := range conns {
		requester := users[c.RequesterID]
		receiver := users[c.ReceiverID]
		results = append(results, models.ConnectionResult{
			Connection: c,
			Requester:  requester.ToCompact(),
			Receiver:   receiver.ToCompact(),
		})
	}
	return results, nil
}

// AcceptedUsers lists the users connected to userID.
func (s *ConnectionService) AcceptedUsers(ctx context.Context, userID uint) ([]models.UserCompact, error) {
	users, err := s.connections.ListAcceptedUsers(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to list connected users", err)
	}
	out := make([]models.UserCompact, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToCompact())
	}
	return out, nil
}
