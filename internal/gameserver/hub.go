package gameserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Neon681/bmt-idle-sub000/internal/game/event"
)

const writeWait = 5 * time.Second

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Hub fans engine events out to websocket clients. Each event is sent as one
// text frame holding its {"type","data"} envelope.
type Hub struct {
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu          sync.Mutex
	subscribers map[string]*subscriber
}

// NewHub returns a Hub with no subscribers.
//
// Precondition: logger must be non-nil.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		subscribers: make(map[string]*subscriber),
	}
}

// ServeHTTP upgrades the request and keeps the client subscribed until its
// connection closes. Inbound messages are discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	id := uuid.NewString()
	h.mu.Lock()
	h.subscribers[id] = &subscriber{conn: conn}
	count := len(h.subscribers)
	h.mu.Unlock()
	h.logger.Info("event stream subscribed", zap.String("subscriber", id), zap.Int("subscribers", count))

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.drop(id)
			return
		}
	}
}

// Publish writes events to every subscriber, dropping any whose write fails.
func (h *Hub) Publish(events []event.Event) {
	frames := make([][]byte, 0, len(events))
	for _, ev := range events {
		data, err := event.Marshal(ev)
		if err != nil {
			h.logger.Error("encoding event", zap.String("event", string(ev.Type())), zap.Error(err))
			continue
		}
		frames = append(frames, data)
	}
	if len(frames) == 0 {
		return
	}

	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := sub.send(frames); err != nil {
			h.logger.Info("event stream write failed", zap.String("subscriber", id), zap.Error(err))
			h.drop(id)
		}
	}
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subscribers
	h.subscribers = make(map[string]*subscriber)
	h.mu.Unlock()
	for _, sub := range subs {
		sub.close()
	}
}

func (h *Hub) drop(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	delete(h.subscribers, id)
	h.mu.Unlock()
	if ok {
		sub.close()
	}
}

func (s *subscriber) send(frames [][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range frames {
		if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return err
		}
		if err := s.conn.WriteMessage(websocket.TextMessage, f); err != nil {
			return err
		}
	}
	return nil
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	_ = s.conn.Close()
}
