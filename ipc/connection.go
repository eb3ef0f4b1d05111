package ipc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*Envelope, error)

// Connection is one host game session talking to the sidecar. Replies are
// written from the read loop, so a session sees its intents in tick order.
type Connection struct {
	conn     net.Conn
	handlers map[string]Handler
	writeMu  sync.Mutex
	Player   string
}

func NewConnection(conn net.Conn, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		conn:     conn,
		handlers: handlers,
	}
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return c.write(env)
}

func (c *Connection) write(env Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return WriteEnvelope(c.conn, env)
}

// ReadLoop dispatches envelopes until the peer hangs up, a frame is
// corrupt, or ctx is cancelled. It owns the conn lifetime. A clean hangup
// returns nil.
func (c *Connection) ReadLoop(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { c.conn.Close() })
	defer stop()
	defer c.conn.Close()

	for {
		env, err := ReadEnvelope(c.conn)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				slog.Info("connection closed", "player", c.Player)
				return nil
			}
			return err
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			slog.Warn("no handler for message type", "type", env.Type)
			continue
		}

		resp, err := handler(env)
		if err != nil {
			// One bad tick must not end the session; the next tick resamples everything.
			slog.Error("handler error", "type", env.Type, "player", c.Player, "error", err)
			continue
		}

		if resp != nil {
			if err := c.write(*resp); err != nil {
				return err
			}
			slog.Debug("sent response", "type", resp.Type, "player", c.Player)
		}
	}
}
