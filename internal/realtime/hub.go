package realtime

import (
	"CliniGoal/pkg/logger"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Event types pushed over the channel. They are hints only: receivers
// must re-read ground truth, delivery is best-effort.
const (
	EventNewPayment           = "new-payment"
	EventNewApprovalRequest   = "new-approval-request"
	EventApprovalDecided      = "approval-decided"
	EventPaymentStatusChanged = "payment-status-changed"
)

// AdminRoom receives the events meant for the admin console, regardless
// of which admin is connected.
const AdminRoom = "admin"

// Hub maintains room -> set of connections. Students join their own
// user-id room, admins additionally join AdminRoom. Redis pub/sub
// bridges rooms across instances.
type Hub struct {
	rooms    map[string]map[string]*Client
	subs     map[string]func() // cancel redis subscription per room
	mu       sync.RWMutex
	log      logger.Log
	redisPub Publisher
	redisSub Subscriber
}

// Publisher publishes an event for other instances.
type Publisher interface {
	PublishRoomEvent(room string, event string, payload []byte) error
}

// Subscriber subscribes to a room's channel and invokes handler for
// incoming events.
type Subscriber interface {
	SubscribeRoom(room string, handler func(event string, payload []byte)) (cancel func(), err error)
}

func NewHub(log logger.Log, redisPub Publisher, redisSub Subscriber) *Hub {
	return &Hub{
		rooms:    make(map[string]map[string]*Client),
		subs:     make(map[string]func()),
		log:      log,
		redisPub: redisPub,
		redisSub: redisSub,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	for _, room := range c.rooms {
		if h.rooms[room] == nil {
			h.rooms[room] = make(map[string]*Client)
			if h.redisSub != nil {
				room := room
				cancel, err := h.redisSub.SubscribeRoom(room, func(event string, payload []byte) {
					h.broadcastLocal(room, event, json.RawMessage(payload))
				})
				if err == nil {
					h.subs[room] = cancel
				}
			}
		}
		h.rooms[room][c.id] = c
	}
	h.mu.Unlock()
	h.log.Debug("realtime client joined", "client_id", c.id, "user_id", c.UserID.String())
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	for _, room := range c.rooms {
		if m, ok := h.rooms[room]; ok {
			delete(m, c.id)
			if len(m) == 0 {
				delete(h.rooms, room)
				if cancel, ok := h.subs[room]; ok {
					cancel()
					delete(h.subs, room)
				}
			}
		}
	}
	h.mu.Unlock()
	h.log.Debug("realtime client left", "client_id", c.id, "user_id", c.UserID.String())
}

func (h *Hub) broadcastLocal(room string, event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
	}
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	clients := h.rooms[room]
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, drop; client will re-read ground truth
		}
	}
}

// NotifyUser pushes an event to one student's room, locally and across
// instances.
func (h *Hub) NotifyUser(userID uuid.UUID, event string, payload interface{}) {
	h.notifyRoom(userID.String(), event, payload)
}

// NotifyAdmins pushes an event to every connected admin console.
func (h *Hub) NotifyAdmins(event string, payload interface{}) {
	h.notifyRoom(AdminRoom, event, payload)
}

// notifyRoom routes through redis only: this instance is subscribed to
// every room it has clients in, so the subscriber callback performs the
// local broadcast exactly once. Broadcasting here as well would deliver
// every event twice to local clients.
func (h *Hub) notifyRoom(room string, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.ErrorErr("realtime payload marshal failed", err, "event", event)
		return
	}
	if h.redisPub != nil {
		err := h.redisPub.PublishRoomEvent(room, event, data)
		if err == nil {
			return
		}
		h.log.ErrorErr("realtime publish failed, falling back to local broadcast", err, "event", event)
	}
	h.broadcastLocal(room, event, json.RawMessage(data))
}
