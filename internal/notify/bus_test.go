package notify

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) (*Bus, *time.Time) {
	t.Helper()
	bus := NewBus(DefaultTTL)
	t.Cleanup(bus.Stop)

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bus.now = func() time.Time { return clock }
	return bus, &clock
}

func TestBusExpiry(t *testing.T) {
	bus, clock := newTestBus(t)
	userID := uuid.New()

	bus.Push(userID, "saved", KindSuccess)

	*clock = clock.Add(3 * time.Second)
	assert.Len(t, bus.Active(userID), 1)

	*clock = clock.Add(2 * time.Second)
	assert.Empty(t, bus.Active(userID))
}

func TestBusOrderAndDuplicates(t *testing.T) {
	bus, clock := newTestBus(t)
	userID := uuid.New()

	bus.Push(userID, "first", KindInfo)
	*clock = clock.Add(time.Millisecond)
	bus.Push(userID, "second", KindError)
	*clock = clock.Add(time.Millisecond)
	bus.Push(userID, "second", KindError)

	feed := bus.Active(userID)
	require.Len(t, feed, 3)
	assert.Equal(t, "first", feed[0].Message)
	assert.Equal(t, "second", feed[1].Message)
	assert.Equal(t, "second", feed[2].Message)
}

func TestBusDismiss(t *testing.T) {
	bus, clock := newTestBus(t)
	userID := uuid.New()

	kept := bus.Push(userID, "kept", KindInfo)
	*clock = clock.Add(time.Millisecond)
	dropped := bus.Push(userID, "dropped", KindInfo)

	bus.Dismiss(userID, dropped.ID)

	feed := bus.Active(userID)
	require.Len(t, feed, 1)
	assert.Equal(t, kept.ID, feed[0].ID)

	// dismissing twice is harmless
	bus.Dismiss(userID, dropped.ID)
	assert.Len(t, bus.Active(userID), 1)
}

func TestBusIsolatesUsers(t *testing.T) {
	bus, _ := newTestBus(t)
	alice := uuid.New()
	bob := uuid.New()

	bus.Push(alice, "for alice", KindInfo)

	assert.Len(t, bus.Active(alice), 1)
	assert.Empty(t, bus.Active(bob))
}

func TestBusStaggeredExpiry(t *testing.T) {
	bus, clock := newTestBus(t)
	userID := uuid.New()

	bus.Push(userID, "old", KindInfo)
	*clock = clock.Add(2 * time.Second)
	bus.Push(userID, "new", KindInfo)

	*clock = clock.Add(3 * time.Second)
	feed := bus.Active(userID)
	require.Len(t, feed, 1)
	assert.Equal(t, "new", feed[0].Message)
}
