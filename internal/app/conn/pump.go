package conn

import (
	"time"

	"github.com/gorilla/websocket"

	"chatsync/internal/pkg/errs"
)

// readPump forwards inbound frames to the publisher until the socket fails or is closed.
func (c *Conn) readPump() {
	defer c.wg.Done()

	c.ws.SetReadLimit(c.opts.MaxFrameBytes)

	if c.opts.PongWait > 0 {
		if err := c.ws.SetReadDeadline(time.Now().Add(c.opts.PongWait)); err != nil {
			c.shutdown(errs.NewConnectionError(errs.ErrConnectionClosed, c.url, err))
			return
		}

		c.ws.SetPongHandler(func(string) error {
			return c.ws.SetReadDeadline(time.Now().Add(c.opts.PongWait))
		})
	}

	for {
		messageType, data, err := c.ws.ReadMessage()
		if err != nil {
			c.handleReadError(err)
			return
		}

		// Frames read after a local Close are not distributed.
		if c.State() == StateClosed {
			return
		}

		if messageType != websocket.TextMessage {
			c.logger.Debug().Int("message_type", messageType).Msg("Forwarding non-text frame")
		}

		if c.opts.PongWait > 0 {
			// Any traffic proves the peer is alive.
			_ = c.ws.SetReadDeadline(time.Now().Add(c.opts.PongWait))
		}

		c.bus.Publish(string(data))
	}
}

func (c *Conn) handleReadError(err error) {
	if c.State() == StateClosed {
		return
	}

	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		c.logger.Info().Err(err).Msg("Server closed the connection")
	} else {
		c.logger.Error().Err(err).Msg("Error reading frame")
	}

	c.shutdown(errs.NewConnectionError(errs.ErrConnectionClosed, c.url, err))
}

// writePump drains the send queue to the socket and keeps the heartbeat going.
func (c *Conn) writePump() {
	defer c.wg.Done()

	var tick <-chan time.Time
	if c.opts.PongWait > 0 {
		ticker := time.NewTicker(c.opts.pingPeriod())
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case message := <-c.send:
			if !c.writeQueuedMessage(message) {
				return
			}

		case <-tick:
			if !c.writePingMessage() {
				return
			}

		case <-c.done:
			return
		}
	}
}

// writeQueuedMessage writes one frame. Returns false if the pump should stop.
func (c *Conn) writeQueuedMessage(message []byte) bool {
	if err := c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteWait)); err != nil {
		c.failWrite(err, "Failed to set write deadline")
		return false
	}

	if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
		c.failWrite(err, "Error writing frame")
		return false
	}

	return true
}

// writePingMessage sends a heartbeat ping. Returns false if the pump should stop.
func (c *Conn) writePingMessage() bool {
	if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.opts.WriteWait)); err != nil {
		c.failWrite(err, "Error writing ping")
		return false
	}
	return true
}

func (c *Conn) failWrite(err error, msg string) {
	if c.State() == StateClosed {
		return
	}
	c.logger.Error().Err(err).Msg(msg)
	c.shutdown(errs.NewConnectionError(errs.ErrSendFailed, c.url, err))
}
