package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxInboundSize = 512

	defaultBufferSize = 16
)

// Message is the frame written to subscribers.
type Message struct {
	Event   string          `json:"event"`
	Channel string          `json:"channel"`
	Data    json.RawMessage `json:"data"`
}

type HubConfig struct {
	// BufferSize bounds the per subscriber queue. Messages for a full queue
	// are dropped.
	BufferSize int

	// CheckOrigin is handed to the websocket upgrader. Nil accepts requests
	// whose Origin matches the Host.
	CheckOrigin func(r *http.Request) bool

	Logger *slog.Logger
}

// Hub fans events out to websocket subscribers grouped by channel.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[*subscriber]struct{}
	closed   bool

	upgrader websocket.Upgrader
	buffer   int
	logger   *slog.Logger
}

var _ Broadcaster = (*Hub)(nil)

type subscriber struct {
	channel string
	send    chan []byte
	done    chan struct{}
	once    sync.Once
}

func (s *subscriber) stop() { s.once.Do(func() { close(s.done) }) }

func NewHub(cfg HubConfig) *Hub {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultBufferSize
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Hub{
		channels: make(map[string]map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     cfg.CheckOrigin,
		},
		buffer: cfg.BufferSize,
		logger: cfg.Logger,
	}
}

// Broadcast encodes payload once and queues it for every subscriber of
// channel without blocking.
func (h *Hub) Broadcast(ctx context.Context, channel, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(Message{Event: event, Channel: channel, Data: data})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.channels[channel] {
		select {
		case sub.send <- frame:
		default:
			h.logger.Warn("subscriber queue full, dropping event",
				"channel", channel,
				"event", event,
			)
		}
	}
	return nil
}

// Subscribers reports how many clients listen on channel.
func (h *Hub) Subscribers(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// Serve upgrades the request and streams channel events to the client until
// either side closes the connection. Authorization must happen before Serve.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, channel string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		return err
	}

	sub := &subscriber{
		channel: channel,
		send:    make(chan []byte, h.buffer),
		done:    make(chan struct{}),
	}
	if !h.add(sub) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		return conn.Close()
	}
	defer h.remove(sub)

	go h.readPump(conn, sub)
	h.writePump(conn, sub)
	return nil
}

// Close disconnects every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for _, subs := range h.channels {
		for sub := range subs {
			sub.stop()
		}
	}
}

func (h *Hub) add(sub *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	subs, ok := h.channels[sub.channel]
	if !ok {
		subs = make(map[*subscriber]struct{})
		h.channels[sub.channel] = subs
	}
	subs[sub] = struct{}{}
	return true
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.channels[sub.channel]
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.channels, sub.channel)
	}
}

// readPump discards client frames; it exists to process control frames and
// notice when the client goes away.
func (h *Hub) readPump(conn *websocket.Conn, sub *subscriber) {
	defer sub.stop()

	conn.SetReadLimit(maxInboundSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("subscriber read failed", "channel", sub.channel, "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(conn *websocket.Conn, sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case frame := <-sub.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-sub.done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}
