// Package chat implements the room presence and messaging client: it
// opens one real-time connection for the active fan room, reconciles
// the fetched history with the live stream, tracks room occupancy and
// exposes a send operation, tearing everything down cleanly across
// rapid room switches.
package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/irobinett3/footy-social/internal/models"
	"github.com/irobinett3/footy-social/internal/session"
)

// HistoryFetcher loads the prior messages of a room in order.
type HistoryFetcher interface {
	RoomMessages(ctx context.Context, roomID int64) ([]models.Message, error)
}

// View is an immutable snapshot of everything a chat panel renders.
type View struct {
	State       State
	Room        *models.Room
	Messages    []models.Message
	ActiveUsers int
	Err         string
}

// Options wires a Client together. History, Dialer and Session are
// required; the rest are optional.
type Options struct {
	History HistoryFetcher
	Dialer  Dialer
	Session *session.Session

	// Policy decides room eligibility. Defaults to FavoriteTeamPolicy(true).
	Policy Policy

	// Seed returns locally cached messages to paint immediately on a
	// room switch. The history fetch replaces the seed wholesale.
	Seed func(roomID int64) []models.Message

	// OnUpdate is invoked from the run loop after every visible change.
	OnUpdate func(View)

	// OnPresence is invoked on every live presence signal so a parent
	// room listing can reflect occupancy without its own connection.
	OnPresence func(roomID int64, count int)

	Logger *slog.Logger
}

type cmdKind int

const (
	cmdSetRoom cmdKind = iota
	cmdRefresh
	cmdSend
	cmdSnapshot
)

type command struct {
	kind    cmdKind
	room    *models.Room
	content string
	reply   chan View
}

type historyResult struct {
	gen  uint64
	msgs []models.Message
	err  error
}

// Client is the per-view chat client. All state is owned by the Run
// loop; the exported methods only enqueue commands, so there is no
// locking anywhere in the core.
type Client struct {
	history    HistoryFetcher
	dialer     Dialer
	sess       *session.Session
	policy     Policy
	seed       func(roomID int64) []models.Message
	onUpdate   func(View)
	onPresence func(roomID int64, count int)
	logger     *slog.Logger

	cmds      chan command
	connEvts  chan connEvent
	histEvts  chan historyResult
	connector *connector

	// run-loop state
	gen        uint64
	genCancel  context.CancelFunc
	room       *models.Room
	state      State
	reconciler *Reconciler
	presence   *presenceTracker
	active     Conn
	errMsg     string
}

func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	policy := opts.Policy
	if policy == nil {
		policy = FavoriteTeamPolicy(true)
	}

	connEvts := make(chan connEvent, 32)

	c := &Client{
		history:    opts.History,
		dialer:     opts.Dialer,
		sess:       opts.Session,
		policy:     policy,
		seed:       opts.Seed,
		onUpdate:   opts.OnUpdate,
		onPresence: opts.OnPresence,
		logger:     logger,
		cmds:       make(chan command, 16),
		connEvts:   connEvts,
		histEvts:   make(chan historyResult, 8),
		reconciler: NewReconciler(),
		state:      StateIdle,
	}
	c.connector = &connector{
		dialer: opts.Dialer,
		events: connEvts,
		logger: logger,
	}
	c.presence = &presenceTracker{onChange: opts.OnPresence}

	if c.sess != nil {
		c.sess.Subscribe(func() {
			select {
			case c.cmds <- command{kind: cmdRefresh}:
			default:
				// A refresh is already queued; the loop re-reads the
				// session when it gets there.
			}
		})
	}

	return c
}

// SetRoom selects the active room. nil clears the selection.
func (c *Client) SetRoom(room *models.Room) {
	c.cmds <- command{kind: cmdSetRoom, room: room}
}

// Send submits a message to the active room. It is a no-op unless the
// connection is established; empty content is never sent.
func (c *Client) Send(content string) {
	c.cmds <- command{kind: cmdSend, content: content}
}

// Snapshot returns the current view. Only valid while Run is active.
func (c *Client) Snapshot() View {
	reply := make(chan View, 1)
	c.cmds <- command{kind: cmdSnapshot, reply: reply}
	return <-reply
}

// Run owns all client state until ctx is cancelled. Cancelling closes
// any open connection and discards stale asynchronous results.
func (c *Client) Run(ctx context.Context) error {
	defer c.teardown()

	for {
		select {
		case cmd := <-c.cmds:
			c.handleCommand(ctx, cmd)
		case ev := <-c.connEvts:
			if ev.gen != c.gen {
				continue
			}
			c.handleConnEvent(ev)
		case res := <-c.histEvts:
			if res.gen != c.gen {
				continue
			}
			c.handleHistory(res)
		case <-ctx.Done():
			return nil
		}
	}
}

func (c *Client) handleCommand(ctx context.Context, cmd command) {
	switch cmd.kind {
	case cmdSetRoom:
		c.room = cmd.room
		c.rebuild(ctx)
	case cmdRefresh:
		c.rebuild(ctx)
	case cmdSend:
		c.send(cmd.content)
	case cmdSnapshot:
		cmd.reply <- c.snapshot()
	}
}

// rebuild tears down the previous generation and starts a new one for
// the current room and credentials: cancel the in-flight history
// fetch, close the old connection, clear the view, re-evaluate
// eligibility and, if eligible, fetch history and dial in parallel.
func (c *Client) rebuild(ctx context.Context) {
	c.teardown()
	c.gen++

	c.reconciler.Reset()
	c.errMsg = ""
	c.presence = &presenceTracker{onChange: c.onPresence}

	room := c.room
	if room == nil {
		c.state = StateIdle
		c.notify()
		return
	}

	c.presence.Seed(room.ActiveUsers)

	token := c.sess.Token()
	if token == "" {
		c.state = StateUnauthorized
		c.notify()
		return
	}

	if !c.policy(c.sess.User(), room) {
		c.state = StateRestricted
		c.notify()
		return
	}

	if c.seed != nil {
		if cached := c.seed(room.ID); len(cached) > 0 {
			c.reconciler.SetHistory(cached)
		}
	}

	c.state = StateConnecting

	genCtx, cancel := context.WithCancel(ctx)
	c.genCancel = cancel

	gen := c.gen
	roomID := room.ID

	go func() {
		msgs, err := c.history.RoomMessages(genCtx, roomID)
		select {
		case c.histEvts <- historyResult{gen: gen, msgs: msgs, err: err}:
		case <-genCtx.Done():
		}
	}()

	go c.connector.run(genCtx, gen, roomID, token)

	c.notify()
}

func (c *Client) teardown() {
	if c.genCancel != nil {
		c.genCancel()
		c.genCancel = nil
	}
	if c.active != nil {
		_ = c.active.Close()
		c.active = nil
	}
}

func (c *Client) handleConnEvent(ev connEvent) {
	switch ev.kind {
	case connOpened:
		c.active = ev.conn
		c.state = StateConnected
	case connFrame:
		if !c.handleFrame(ev.frame) {
			return
		}
	case connErrored:
		c.active = nil
		c.state = StateError
		if ev.err != nil {
			c.errMsg = ev.err.Error()
		}
	case connClosed:
		c.active = nil
		if ev.clean {
			c.state = StateClosed
		} else {
			c.state = StateError
		}
		if ev.reason != "" {
			c.errMsg = ev.reason
		}
	}
	c.notify()
}

// handleFrame applies one inbound frame and reports whether anything
// visible changed.
func (c *Client) handleFrame(frame models.Frame) bool {
	switch f := frame.(type) {
	case models.WelcomeFrame:
		c.presence.Update(c.room.ID, f.ActiveUsers)
	case models.PresenceFrame:
		c.presence.Update(c.room.ID, f.ActiveUsers)
	case models.ChatMessageFrame:
		if f.Message.RoomID != c.room.ID {
			c.logger.Warn("dropping message for inactive room",
				"room_id", f.Message.RoomID, "active_room_id", c.room.ID)
			return false
		}
		return c.reconciler.Apply(f.Message)
	case models.ErrorFrame:
		c.errMsg = f.Message
	}
	return true
}

func (c *Client) handleHistory(res historyResult) {
	if res.err != nil {
		c.logger.Error("failed to load chat history",
			"room_id", c.room.ID, "error", res.err)
		c.errMsg = "Failed to load chat history."
		c.reconciler.Reset()
	} else {
		c.reconciler.SetHistory(res.msgs)
	}
	c.notify()
}

func (c *Client) send(content string) {
	content = strings.TrimSpace(content)
	if content == "" || c.state != StateConnected || c.active == nil {
		return
	}

	if err := c.active.WriteJSON(models.OutboundMessage{Content: content}); err != nil {
		c.logger.Error("failed to send message", "room_id", c.room.ID, "error", err)
		c.errMsg = "Failed to send message."
		c.notify()
	}
}

func (c *Client) snapshot() View {
	return View{
		State:       c.state,
		Room:        c.room,
		Messages:    c.reconciler.Messages(),
		ActiveUsers: c.presence.Count(),
		Err:         c.errMsg,
	}
}

func (c *Client) notify() {
	if c.onUpdate != nil {
		c.onUpdate(c.snapshot())
	}
}
