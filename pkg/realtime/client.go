package realtime

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/Abraxas-365/taskboard/pkg/asyncx"
	"github.com/Abraxas-365/taskboard/pkg/logx"
	"github.com/gorilla/websocket"
)

// ClientConfig configures a websocket Client.
type ClientConfig struct {
	// URL of the hub room, e.g. ws://localhost:8080/ws/board
	URL          string
	Header       http.Header
	PingInterval time.Duration
	WriteTimeout time.Duration
	ReadLimit    int64
	DialAttempts int
	DialBackoff  time.Duration
}

func (c *ClientConfig) defaults() {
	if c.PingInterval <= 0 {
		c.PingInterval = 25 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.ReadLimit <= 0 {
		c.ReadLimit = 1 << 20
	}
	if c.DialAttempts <= 0 {
		c.DialAttempts = 1
	}
	if c.DialBackoff <= 0 {
		c.DialBackoff = 200 * time.Millisecond
	}
}

// Client is a Channel over a gorilla websocket connection.
type Client struct {
	cfg       ClientConfig
	conn      *websocket.Conn
	listeners *Listeners
	log       *logx.Entry

	writeMu sync.Mutex

	done      chan struct{}
	closeOnce sync.Once
	errMu     sync.Mutex
	err       error
	wg        sync.WaitGroup
}

var _ Channel = (*Client)(nil)

// Dial connects to the hub, retrying with exponential backoff, and starts
// the read and keepalive loops.
func Dial(ctx context.Context, cfg ClientConfig) (*Client, error) {
	cfg.defaults()
	log := logx.WithComponent("realtime.client").WithField("url", cfg.URL)

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 10 * time.Second,
	}
	conn, err := asyncx.RetryWithBackoff(ctx, cfg.DialAttempts, cfg.DialBackoff,
		func(ctx context.Context) (*websocket.Conn, error) {
			conn, _, err := dialer.DialContext(ctx, cfg.URL, cfg.Header)
			if err != nil {
				log.WithError(err).Debug("dial attempt failed")
			}
			return conn, err
		})
	if err != nil {
		return nil, ErrRegistry.NewWithCause(CodeDial, err).WithDetail("url", cfg.URL)
	}

	c := &Client{
		cfg:       cfg,
		conn:      conn,
		listeners: NewListeners(),
		log:       log,
		done:      make(chan struct{}),
	}
	conn.SetReadLimit(cfg.ReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(2 * cfg.PingInterval))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(2 * cfg.PingInterval))
	})

	c.wg.Add(2)
	go c.readLoop()
	go c.pingLoop()

	log.Info("connected")
	return c, nil
}

// Emit writes one frame. Writes are serialized.
func (c *Client) Emit(event string, payload any) error {
	frame, err := Encode(event, payload)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return ErrClosed()
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return ErrRegistry.NewWithCause(CodeWrite, err).WithDetail("event", event)
	}
	return nil
}

func (c *Client) On(event string, h Handler) ListenerID {
	return c.listeners.On(event, h)
}

func (c *Client) RemoveListener(event string, id ListenerID) bool {
	return c.listeners.RemoveListener(event, id)
}

// Done is closed once the connection is gone.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err returns why the connection ended, or nil while it is open or after a
// clean Close.
func (c *Client) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

// Close sends a close frame, tears down the connection and waits for the
// background loops.
func (c *Client) Close() error {
	c.shutdown(nil)
	c.wg.Wait()
	return nil
}

func (c *Client) shutdown(cause error) {
	c.closeOnce.Do(func() {
		c.errMu.Lock()
		c.err = cause
		c.errMu.Unlock()

		close(c.done)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = c.conn.Close()
	})
}

func (c *Client) readLoop() {
	defer c.wg.Done()
	for {
		mt, frame, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					err = nil
				} else {
					c.log.WithError(err).Warn("connection lost")
				}
				c.shutdown(err)
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		msg, err := Decode(frame)
		if err != nil {
			c.log.WithError(err).Warn("dropping malformed frame")
			continue
		}
		c.listeners.Dispatch(msg)
	}
}

func (c *Client) pingLoop() {
	defer c.wg.Done()
	t := time.NewTicker(c.cfg.PingInterval)
	defer t.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-t.C:
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.cfg.WriteTimeout))
			if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
				c.log.WithError(err).Warn("ping failed")
				c.shutdown(err)
				return
			}
		}
	}
}
