// Package realtime keeps track of live websocket sessions per user and
// pushes events to them.
package realtime

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/anonto42/career-hub/backend/pkg/logger"
)

// Session is one live push connection. Send must not block; a session that
// cannot take the event returns an error and the event is lost for it.
type Session interface {
	ID() string
	Send(event string, payload interface{}) error
}

// Registry maps a user id to the sessions currently open for that user.
type Registry struct {
	name string

	mu     sync.RWMutex
	groups map[uint]map[string]Session
}

// NewRegistry creates an empty registry. name only shows up in logs.
func NewRegistry(name string) *Registry {
	return &Registry{
		name:   name,
		groups: make(map[uint]map[string]Session),
	}
}

// Join adds s to the user's group. Joining twice with the same session id
// keeps a single entry.
func (r *Registry) Join(userID uint, s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	group, ok := r.groups[userID]
	if !ok {
		group = make(map[string]Session)
		r.groups[userID] = group
	}
	group[s.ID()] = s
}

// Leave removes the session and drops the group once it is empty.
func (r *Registry) Leave(userID uint, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	group, ok := r.groups[userID]
	if !ok {
		return
	}
	delete(group, sessionID)
	if len(group) == 0 {
		delete(r.groups, userID)
	}
}

// BroadcastToUser sends the event to every session of the user at call
// time. Offline users get nothing; there is no queue.
func (r *Registry) BroadcastToUser(userID uint, event string, payload interface{}) {
	r.mu.RLock()
	group := r.groups[userID]
	sessions := make([]Session, 0, len(group))
	for _, s := range group {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	for _, s := range sessions {
		if err := s.Send(event, payload); err != nil {
			logger.Log.WithFields(logrus.Fields{
				"registry": r.name,
				"userId":   userID,
				"session":  s.ID(),
				"event":    event,
			}).WithError(err).Warn("dropping push event")
		}
	}
}

// SessionCount returns how many sessions the user has open.
func (r *Registry) SessionCount(userID uint) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groups[userID])
}

// Online reports whether the user has at least one session.
func (r *Registry) Online(userID uint) bool {
	return r.SessionCount(userID) > 0
}
