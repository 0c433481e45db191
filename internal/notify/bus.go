package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	KindInfo    = "info"
	KindSuccess = "success"
	KindError   = "error"

	DefaultTTL = 4 * time.Second
)

// Notification is a transient UI message. The id carries the push
// timestamp in nanoseconds.
type Notification struct {
	ID       int64     `json:"id"`
	Message  string    `json:"message"`
	Kind     string    `json:"kind"`
	PushedAt time.Time `json:"pushed_at"`
}

// Bus keeps per-user feeds of short-lived notifications. Entries expire
// after ttl; dismissal removes them early. Insertion order is preserved,
// duplicates are not coalesced.
type Bus struct {
	mu    sync.Mutex
	feeds map[uuid.UUID][]Notification
	ttl   time.Duration

	stop    chan struct{}
	stopped sync.Once
	now     func() time.Time
}

func NewBus(ttl time.Duration) *Bus {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	b := &Bus{
		feeds: make(map[uuid.UUID][]Notification),
		ttl:   ttl,
		stop:  make(chan struct{}),
		now:   time.Now,
	}
	go b.janitor()
	return b
}

func (b *Bus) Push(userID uuid.UUID, message, kind string) Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := Notification{
		ID:       b.now().UnixNano(),
		Message:  message,
		Kind:     kind,
		PushedAt: b.now(),
	}
	b.feeds[userID] = append(b.feeds[userID], n)
	return n
}

func (b *Bus) Dismiss(userID uuid.UUID, id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	feed := b.feeds[userID]
	for i, n := range feed {
		if n.ID == id {
			b.feeds[userID] = append(feed[:i], feed[i+1:]...)
			break
		}
	}
	if len(b.feeds[userID]) == 0 {
		delete(b.feeds, userID)
	}
}

// Active returns the user's live notifications in insertion order.
// Expiry is also enforced here so a slow janitor tick can never surface
// stale entries.
func (b *Bus) Active(userID uuid.UUID) []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.expireLocked(userID)
	feed := b.feeds[userID]
	out := make([]Notification, len(feed))
	copy(out, feed)
	return out
}

// Stop terminates the janitor. Pending entries are dropped.
func (b *Bus) Stop() {
	b.stopped.Do(func() { close(b.stop) })
}

func (b *Bus) janitor() {
	ticker := time.NewTicker(b.ttl / 4)
	defer ticker.Stop()
	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			b.mu.Lock()
			for userID := range b.feeds {
				b.expireLocked(userID)
			}
			b.mu.Unlock()
		}
	}
}

func (b *Bus) expireLocked(userID uuid.UUID) {
	cutoff := b.now().Add(-b.ttl)
	feed := b.feeds[userID]
	live := feed[:0]
	for _, n := range feed {
		if n.PushedAt.After(cutoff) {
			live = append(live, n)
		}
	}
	if len(live) == 0 {
		delete(b.feeds, userID)
		return
	}
	b.feeds[userID] = live
}
