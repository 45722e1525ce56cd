package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "Pending"
	ConnectionAccepted ConnectionStatus = "Accepted"
	ConnectionDeclined ConnectionStatus = "Declined"
	ConnectionBlocked  ConnectionStatus = "Blocked"
)

// Blocked is terminal and reachable from every other state.
var connectionTransitions = map[ConnectionStatus][]ConnectionStatus{
	ConnectionPending:  {ConnectionAccepted, ConnectionDeclined, ConnectionBlocked},
	ConnectionAccepted: {ConnectionBlocked},
	ConnectionDeclined: {ConnectionBlocked},
}

// CanTransitionTo reports whether the state machine allows s -> next.
func (s ConnectionStatus) CanTransitionTo(next ConnectionStatus) bool {
	for _, allowed := range connectionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ConnectionStatus) Terminal() bool {
	return len(connectionTransitions[s]) == 0
}

// Connection is a social-graph link between two users. PairKey makes the
// unordered pair unique in storage, so A->B and B->A can never coexist.
type Connection struct {
	ID          uint             `json:"connectionId" gorm:"primaryKey"`
	RequesterID uint             `json:"requesterId" gorm:"not null;index"`
	ReceiverID  uint             `json:"receiverId" gorm:"not null;index"`
	PairKey     string           `json:"-" gorm:"size:41;not null;uniqueIndex"`
	Status      ConnectionStatus `json:"status" gorm:"size:10;not null;default:Pending;index"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// PairKeyFor returns the direction-independent key of a user pair.
func PairKeyFor(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

func (c *Connection) BeforeCreate(tx *gorm.DB) error {
	c.PairKey = PairKeyFor(c.RequesterID, c.ReceiverID)
	return nil
}

// Involves reports whether userID is either party.
func (c *Connection) Involves(userID uint) bool {
	return c.RequesterID == userID || c.ReceiverID == userID
}

// Counterpart returns the party that is not userID.
func (c *Connection) Counterpart(userID uint) uint {
	if c.RequesterID == userID {
		return c.ReceiverID
	}
	return c.RequesterID
}

// ConnectionResult is a connection with both parties expanded
type ConnectionResult struct {
	Connection
	Requester UserCompact `json:"requester"`
	Receiver  UserCompact `json:"receiver"`
}

// CreateConnectionRequest defines the request body for sending a connection request
type CreateConnectionRequest struct {
	ReceiverID uint `json:"receiverId" validate:"required"`
}

// RespondConnectionRequest defines the request body for accepting/declining a connection request
type RespondConnectionRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}
