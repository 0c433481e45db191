package realtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CliniGoal/pkg/logger"
)

// loopbackPubSub behaves like redis from a single instance's point of
// view: everything published comes back through the room subscription,
// including this instance's own messages.
type loopbackPubSub struct {
	handlers  map[string][]func(event string, payload []byte)
	published int
}

func newLoopbackPubSub() *loopbackPubSub {
	return &loopbackPubSub{handlers: make(map[string][]func(event string, payload []byte))}
}

func (p *loopbackPubSub) PublishRoomEvent(room string, event string, payload []byte) error {
	p.published++
	for _, h := range p.handlers[room] {
		h(event, payload)
	}
	return nil
}

func (p *loopbackPubSub) SubscribeRoom(room string, handler func(event string, payload []byte)) (func(), error) {
	p.handlers[room] = append(p.handlers[room], handler)
	return func() {
		delete(p.handlers, room)
	}, nil
}

func newTestClient(userID uuid.UUID, rooms ...string) *Client {
	return &Client{
		id:     uuid.New().String(),
		UserID: userID,
		rooms:  rooms,
		send:   make(chan WSMessage, 8),
	}
}

func TestNotifyUserDeliversOncePerEvent(t *testing.T) {
	ps := newLoopbackPubSub()
	hub := NewHub(logger.NewNop(), ps, ps)

	userID := uuid.New()
	client := newTestClient(userID, userID.String())
	hub.register(client)

	hub.NotifyUser(userID, EventApprovalDecided, map[string]string{"status": "approved"})

	require.Len(t, client.send, 1)
	msg := <-client.send
	assert.Equal(t, EventApprovalDecided, msg.Event)
	assert.Equal(t, 1, ps.published)
}

func TestNotifyAdminsReachesAdminRoomOnly(t *testing.T) {
	ps := newLoopbackPubSub()
	hub := NewHub(logger.NewNop(), ps, ps)

	adminID := uuid.New()
	studentID := uuid.New()
	admin := newTestClient(adminID, adminID.String(), AdminRoom)
	student := newTestClient(studentID, studentID.String())
	hub.register(admin)
	hub.register(student)

	hub.NotifyAdmins(EventNewApprovalRequest, map[string]string{"record_id": uuid.NewString()})

	require.Len(t, admin.send, 1)
	assert.Len(t, student.send, 0)
}

func TestNotifyWithoutPubSubBroadcastsLocally(t *testing.T) {
	hub := NewHub(logger.NewNop(), nil, nil)

	userID := uuid.New()
	client := newTestClient(userID, userID.String())
	hub.register(client)

	hub.NotifyUser(userID, EventPaymentStatusChanged, map[string]string{"payment_status": "completed"})

	require.Len(t, client.send, 1)
	msg := <-client.send
	assert.Equal(t, EventPaymentStatusChanged, msg.Event)
}

func TestUnregisterCancelsRoomSubscription(t *testing.T) {
	ps := newLoopbackPubSub()
	hub := NewHub(logger.NewNop(), ps, ps)

	userID := uuid.New()
	client := newTestClient(userID, userID.String())
	hub.register(client)
	require.Len(t, ps.handlers, 1)

	hub.unregister(client)
	assert.Len(t, ps.handlers, 0)
}
