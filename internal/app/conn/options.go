package conn

import (
	"net/http"
	"time"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultWriteWait        = 10 * time.Second
	defaultMaxFrameBytes    = 64 * 1024
	defaultSendQueueSize    = 256
)

// Options tunes a Conn. Zero fields take the defaults, except PongWait where
// zero disables the heartbeat.
type Options struct {
	// HandshakeTimeout bounds the opening handshake.
	HandshakeTimeout time.Duration

	// WriteWait bounds each write to the socket.
	WriteWait time.Duration

	// PongWait is how long the read side waits for any traffic before giving up.
	// Pings are sent at 9/10 of it.
	PongWait time.Duration

	// MaxFrameBytes is the read limit for one inbound frame.
	MaxFrameBytes int64

	// SendQueueSize is the capacity of the outbound queue.
	SendQueueSize int

	// Header is sent with the opening handshake.
	Header http.Header
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		HandshakeTimeout: defaultHandshakeTimeout,
		WriteWait:        defaultWriteWait,
		PongWait:         60 * time.Second,
		MaxFrameBytes:    defaultMaxFrameBytes,
		SendQueueSize:    defaultSendQueueSize,
	}
}

func (o Options) withDefaults() Options {
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = defaultHandshakeTimeout
	}
	if o.WriteWait <= 0 {
		o.WriteWait = defaultWriteWait
	}
	if o.MaxFrameBytes <= 0 {
		o.MaxFrameBytes = defaultMaxFrameBytes
	}
	if o.SendQueueSize <= 0 {
		o.SendQueueSize = defaultSendQueueSize
	}
	if o.PongWait < 0 {
		o.PongWait = 0
	}
	return o
}

func (o Options) pingPeriod() time.Duration {
	return (o.PongWait * 9) / 10
}
