package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Abraxas-365/taskboard/pkg/fnx"
	"github.com/Abraxas-365/taskboard/pkg/kernel"
	"github.com/Abraxas-365/taskboard/pkg/logx"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// HubConfig configures the server side of the event channel.
type HubConfig struct {
	WriteTimeout time.Duration
	ReadLimit    int64
	// Events lists the event names relayed between clients. Defaults to
	// chat and syncTask.
	Events []string
}

type hubConn struct {
	id      string
	room    string
	conn    *websocket.Conn
	writeMu sync.Mutex
	closed  bool
}

// write sends one frame unless the connection already left its room.
func (c *hubConn) write(timeout time.Duration, frame []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.closed {
		return nil
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}

// Hub relays frames between the connections of a room, never back to the
// sender.
type Hub struct {
	node   string
	cfg    HubConfig
	broker Broker
	log    *logx.Entry

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.RWMutex
	rooms map[string]map[string]*hubConn
}

// NewHub creates a hub relaying through broker.
func NewHub(broker Broker, cfg HubConfig) *Hub {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = 1 << 20
	}
	if len(cfg.Events) == 0 {
		cfg.Events = []string{EventChat, EventSyncTask}
	}
	node := kernel.NewID()
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		node:   node,
		cfg:    cfg,
		broker: broker,
		log:    logx.WithComponent("realtime.hub").WithField("node", node),
		ctx:    ctx,
		cancel: cancel,
		rooms:  make(map[string]map[string]*hubConn),
	}
}

// Node returns the hub's node ID.
func (h *Hub) Node() string { return h.node }

// Start subscribes the hub to its broker.
func (h *Hub) Start(ctx context.Context) error {
	return h.broker.Subscribe(ctx, h.deliver)
}

// RegisterRoutes mounts the websocket endpoint at /ws/:room.
func (h *Hub) RegisterRoutes(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws/:room", websocket.New(h.serve, websocket.Config{
		RecoverHandler: h.recoverPanic,
	}))
}

// Connections returns the number of open connections in room.
func (h *Hub) Connections(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Close disconnects every client and closes the broker.
func (h *Hub) Close() error {
	h.cancel()

	h.mu.Lock()
	var conns []*hubConn
	for _, room := range h.rooms {
		for _, c := range room {
			conns = append(conns, c)
		}
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.writeMu.Lock()
		if !c.closed {
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second))
			_ = c.conn.Close()
		}
		c.writeMu.Unlock()
	}
	return h.broker.Close()
}

func (h *Hub) serve(conn *websocket.Conn) {
	c := &hubConn{
		id:   kernel.NewID(),
		room: conn.Params("room"),
		conn: conn,
	}
	log := h.log.WithFields(logx.Fields{"room": c.room, "conn": c.id})

	h.join(c)
	defer h.leave(c)
	log.Debug("client joined")

	conn.SetReadLimit(h.cfg.ReadLimit)
	for {
		mt, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("client dropped")
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		msg, err := Decode(frame)
		if err != nil {
			log.WithError(err).Warn("dropping malformed frame")
			continue
		}
		if !fnx.OneOf(msg.Event, h.cfg.Events...) {
			log.WithField("event", msg.Event).Warn("dropping unknown event")
			continue
		}
		h.trace(log, msg)

		f := Frame{Room: c.room, Node: h.node, Origin: c.id, Payload: json.RawMessage(frame)}
		if err := h.broker.Publish(h.ctx, f); err != nil {
			log.WithError(err).Error("publish failed")
		}
	}
}

func (h *Hub) trace(log *logx.Entry, msg Message) {
	if msg.Event != EventSyncTask {
		log.WithField("event", msg.Event).Debug("relaying")
		return
	}
	var data any
	if err := json.Unmarshal(msg.Data, &data); err == nil {
		if id, ok := fnx.Lookup(data, "id"); ok {
			log = log.WithField("task_id", id)
		}
	}
	log.WithField("event", msg.Event).Debug("relaying")
}

// deliver writes f to every connection of its room except the origin.
func (h *Hub) deliver(f Frame) {
	h.mu.RLock()
	targets := make([]*hubConn, 0, len(h.rooms[f.Room]))
	for id, c := range h.rooms[f.Room] {
		if id != f.Origin {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(h.cfg.WriteTimeout, f.Payload); err != nil {
			h.log.WithFields(logx.Fields{"room": c.room, "conn": c.id}).WithError(err).Warn("write failed")
		}
	}
}

func (h *Hub) join(c *hubConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.room]
	if !ok {
		room = make(map[string]*hubConn)
		h.rooms[c.room] = room
	}
	room[c.id] = c
}

// leave must run before the websocket handler returns; the underlying conn
// is recycled afterwards.
func (h *Hub) leave(c *hubConn) {
	h.mu.Lock()
	delete(h.rooms[c.room], c.id)
	if len(h.rooms[c.room]) == 0 {
		delete(h.rooms, c.room)
	}
	h.mu.Unlock()

	c.writeMu.Lock()
	c.closed = true
	c.writeMu.Unlock()
}

func (h *Hub) recoverPanic(conn *websocket.Conn) {
	if r := recover(); r != nil {
		h.log.WithField("panic", r).Error("websocket handler panicked")
		_ = conn.Close()
	}
}
