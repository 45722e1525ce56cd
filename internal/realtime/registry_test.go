package realtime_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/career-hub/backend/internal/realtime"
)

type recordedEvent struct {
	Event   string
	Payload interface{}
}

type fakeSession struct {
	id   string
	fail bool

	mu     sync.Mutex
	events []recordedEvent
}

func (s *fakeSession) ID() string { return s.id }

func (s *fakeSession) Send(event string, payload interface{}) error {
	if s.fail {
		return errors.New("broken pipe")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, recordedEvent{event, payload})
	return nil
}

func (s *fakeSession) Events() []recordedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedEvent(nil), s.events...)
}

func TestRegistry_JoinIsIdempotent(t *testing.T) {
	r := realtime.NewRegistry("test")
	s := &fakeSession{id: "a"}

	r.Join(1, s)
	r.Join(1, s)
	assert.Equal(t, 1, r.SessionCount(1))

	r.BroadcastToUser(1, "Ping", 1)
	assert.Len(t, s.Events(), 1)
}

func TestRegistry_LeaveRemovesEmptyGroup(t *testing.T) {
	r := realtime.NewRegistry("test")
	r.Leave(1, "missing")

	r.Join(1, &fakeSession{id: "a"})
	r.Join(1, &fakeSession{id: "b"})
	r.Leave(1, "a")
	assert.Equal(t, 1, r.SessionCount(1))
	r.Leave(1, "b")
	assert.Equal(t, 0, r.SessionCount(1))
	assert.False(t, r.Online(1))
}

func TestRegistry_BroadcastOnlyReachesTheUserGroup(t *testing.T) {
	r := realtime.NewRegistry("test")
	phone := &fakeSession{id: "phone"}
	laptop := &fakeSession{id: "laptop"}
	other := &fakeSession{id: "other"}
	r.Join(3, phone)
	r.Join(3, laptop)
	r.Join(10, other)

	r.BroadcastToUser(3, "ReceiveNotification", map[string]interface{}{"id": 1})
	r.BroadcastToUser(42, "ReceiveNotification", nil)

	assert.Len(t, phone.Events(), 1)
	assert.Len(t, laptop.Events(), 1)
	assert.Empty(t, other.Events())
}

func TestRegistry_FailingSessionDoesNotAffectOthers(t *testing.T) {
	r := realtime.NewRegistry("test")
	broken := &fakeSession{id: "broken", fail: true}
	healthy := &fakeSession{id: "healthy"}
	r.Join(5, broken)
	r.Join(5, healthy)

	r.BroadcastToUser(5, "ReceiveMessage", "hi")

	require.Len(t, healthy.Events(), 1)
	assert.Equal(t, "ReceiveMessage", healthy.Events()[0].Event)
}

func TestRegistry_ConcurrentJoinLeaveBroadcast(t *testing.T) {
	r := realtime.NewRegistry("test")
	stable := &fakeSession{id: "stable"}
	r.Join(1, stable)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		id := fmt.Sprintf("s-%d", i)
		go func() {
			defer wg.Done()
			r.Join(1, &fakeSession{id: id})
		}()
		go func() {
			defer wg.Done()
			r.Leave(1, id)
		}()
		go func() {
			defer wg.Done()
			r.BroadcastToUser(1, "Tick", nil)
		}()
	}
	wg.Wait()

	assert.Len(t, stable.Events(), 50)
	assert.GreaterOrEqual(t, r.SessionCount(1), 1)
}
