package chat

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gorilla/websocket"
	"github.com/irobinett3/footy-social/internal/models"
)

// State is the lifecycle state of the room connection. Exactly one is
// active per client; transitions drive UI enablement (send is only
// available in StateConnected).
type State string

const (
	StateIdle         State = "idle"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateRestricted   State = "restricted"
	StateUnauthorized State = "unauthorized"
	StateClosed       State = "closed"
	StateError        State = "error"
)

// Conn is the duplex connection to one room's real-time channel.
// *websocket.Conn satisfies it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v any) error
	Close() error
}

// Dialer opens the real-time channel for a (room, token) pair.
type Dialer interface {
	Dial(ctx context.Context, roomID int64, token string) (Conn, error)
}

type connEventKind int

const (
	connOpened connEventKind = iota
	connFrame
	connErrored
	connClosed
)

// connEvent is delivered to the coordinator loop. Events carry the
// generation of the switch that started the connection; the loop drops
// anything from an older generation, which is what guarantees late
// in-flight frames are ignored once a newer connection has started.
type connEvent struct {
	gen   uint64
	kind  connEventKind
	conn  Conn
	frame models.Frame
	err   error
	// close details
	clean  bool
	reason string
}

// connector owns the lifecycle of one outbound connection attempt:
// dial, deliver the opened connection, then pump inbound frames until
// the transport ends. The connection is closed on every exit path.
type connector struct {
	dialer Dialer
	events chan<- connEvent
	logger *slog.Logger
}

// run dials and pumps one connection. It is started once per
// generation; cancelling ctx closes the connection, which unblocks the
// read loop.
func (c *connector) run(ctx context.Context, gen uint64, roomID int64, token string) {
	conn, err := c.dialer.Dial(ctx, roomID, token)
	if err != nil {
		c.deliver(ctx, connEvent{gen: gen, kind: connErrored, err: err})
		return
	}

	if ctx.Err() != nil {
		_ = conn.Close()
		return
	}

	// Unblock ReadMessage when the generation is torn down.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	c.deliver(ctx, connEvent{gen: gen, kind: connOpened, conn: conn})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.deliver(ctx, c.closeEvent(gen, err))
			return
		}

		frame, err := models.DecodeFrame(data)
		if err != nil {
			c.logger.Warn("dropping malformed frame", "room_id", roomID, "error", err)
			continue
		}

		c.deliver(ctx, connEvent{gen: gen, kind: connFrame, frame: frame})
	}
}

// closeEvent classifies the read error that ended the connection. A
// clean close becomes connClosed with the peer's reason; anything else
// is a transport error.
func (c *connector) closeEvent(gen uint64, err error) connEvent {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		clean := closeErr.Code == websocket.CloseNormalClosure ||
			closeErr.Code == websocket.CloseGoingAway
		return connEvent{
			gen:    gen,
			kind:   connClosed,
			clean:  clean,
			reason: closeErr.Text,
		}
	}
	return connEvent{gen: gen, kind: connErrored, err: err}
}

func (c *connector) deliver(ctx context.Context, ev connEvent) {
	select {
	case c.events <- ev:
	case <-ctx.Done():
	}
}
