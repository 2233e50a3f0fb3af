/*
Package conn owns the single websocket connection between the chat client and the server.

This file defines the Conn struct. It dials the server, forwards every inbound frame to a
Publisher in arrival order without interpreting it, and drains an outbound queue through a
dedicated write pump (ReadPump / WritePump pair). There is no reconnect: once closed, a Conn
stays closed and every Send fails.
*/
package conn

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"chatsync/internal/pkg/errs"
	"chatsync/internal/pkg/logx"
)

// Publisher receives every raw inbound frame. *eventbus.Bus[string] satisfies it.
type Publisher interface {
	Publish(frame string) int
}

// State is the lifecycle state of a Conn.
type State int

const (
	// StateConnected means frames flow in both directions.
	StateConnected State = iota

	// StateClosed means the socket is gone; sends fail and nothing is published.
	StateClosed
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Conn is the client side of one websocket session.
type Conn struct {
	// url is the endpoint the connection was dialed to.
	url string

	// underlying WebSocket connection object.
	ws *websocket.Conn

	// bus receives every inbound frame.
	bus Publisher

	// a buffered channel used to queue frames waiting to be written.
	send chan []byte

	opts Options

	// done is closed exactly once when the connection ends.
	done      chan struct{}
	closeOnce sync.Once

	// mu protects closed and err.
	mu     sync.RWMutex
	closed bool
	err    error

	// wg tracks the two pumps.
	wg sync.WaitGroup

	// structured logger with connection context.
	logger zerolog.Logger
}

// Dial establishes the websocket to rawURL and starts the pumps.
// Any failure is returned as a *errs.ConnectionError.
func Dial(ctx context.Context, rawURL string, opts Options, bus Publisher) (*Conn, error) {
	opts = opts.withDefaults()

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errs.NewConnectionError(errs.ErrConnectionFailed, rawURL, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, errs.NewConnectionError(errs.ErrConnectionFailed, rawURL, errors.New("scheme must be ws or wss"))
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: opts.HandshakeTimeout,
		ReadBufferSize:   4096,
		WriteBufferSize:  4096,
	}

	ws, resp, err := dialer.DialContext(ctx, u.String(), opts.Header)
	if err != nil {
		event := logx.Logger().Warn().Err(err).Str("url", u.Redacted())
		if resp != nil {
			event = event.Int("http_status", resp.StatusCode)
		}
		event.Msg("Failed to establish websocket connection")
		return nil, errs.NewConnectionError(errs.ErrConnectionFailed, u.Redacted(), err)
	}

	c := newConn(u.Redacted(), ws, opts, bus)

	c.wg.Add(2)
	go c.readPump()
	go c.writePump()

	c.logger.Info().Msg("Connected to chat server.")
	return c, nil
}

func newConn(rawURL string, ws *websocket.Conn, opts Options, bus Publisher) *Conn {
	return &Conn{
		url:    rawURL,
		ws:     ws,
		bus:    bus,
		send:   make(chan []byte, opts.SendQueueSize),
		opts:   opts,
		done:   make(chan struct{}),
		logger: logx.Component("Conn").With().Str("url", rawURL).Logger(),
	}
}

// Send queues text for the write pump and returns without waiting for delivery.
// It fails with a *errs.SendError when the connection is closed or the queue is full.
func (c *Conn) Send(text string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return errs.NewSendError(errs.ErrConnectionClosed, c.err)
	}

	select {
	case c.send <- []byte(text):
		return nil
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Send queue full, dropping frame")
		return errs.NewSendError(errs.ErrSendQueueFull, nil)
	}
}

// Close sends a normal closure frame and tears the connection down.
// Frames still queued are dropped. Calling Close more than once is a no-op.
func (c *Conn) Close() error {
	if c.State() == StateClosed {
		return nil
	}

	closeMessage := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client close")
	err := c.ws.WriteControl(websocket.CloseMessage, closeMessage, time.Now().Add(c.opts.WriteWait))

	c.shutdown(nil)

	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		return errs.NewConnectionError(errs.ErrConnectionClosed, c.url, err)
	}
	return nil
}

// Done is closed when the connection ends, whether locally or because the socket failed.
func (c *Conn) Done() <-chan struct{} { return c.done }

// Err reports why the connection ended. It is nil while connected and after a local Close.
func (c *Conn) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// State returns the current lifecycle state.
func (c *Conn) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return StateClosed
	}
	return StateConnected
}

// URL returns the endpoint with any credentials redacted.
func (c *Conn) URL() string { return c.url }

// Wait blocks until both pumps have exited. Do not call it from a bus handler,
// which runs on the read pump.
func (c *Conn) Wait() { c.wg.Wait() }

// shutdown marks the connection closed, records cause and closes the socket.
func (c *Conn) shutdown(cause error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.err = cause
		c.mu.Unlock()

		close(c.done)

		if err := c.ws.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Websocket close error")
		}

		if cause != nil {
			c.logger.Warn().Err(cause).Msg("Connection closed.")
		} else {
			c.logger.Info().Msg("Connection closed by client.")
		}
	})
}
