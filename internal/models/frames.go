package models

import (
	"encoding/json"
	"fmt"
)

// Frame is an inbound real-time frame. The set of implementations is
// closed: WelcomeFrame, PresenceFrame, ChatMessageFrame and ErrorFrame.
type Frame interface {
	frame()
}

// WelcomeFrame is sent by the backend right after the connection is
// accepted and carries the initial room occupancy.
type WelcomeFrame struct {
	RoomID      int64
	TeamName    string
	ActiveUsers int
}

// PresenceFrame announces the current room occupancy.
type PresenceFrame struct {
	RoomID      int64
	ActiveUsers int
}

// ChatMessageFrame delivers a single chat message.
type ChatMessageFrame struct {
	Message Message
}

// ErrorFrame is an error the backend chose to report to this client.
// The connection stays open unless the backend also closes it.
type ErrorFrame struct {
	Message string
}

func (WelcomeFrame) frame()     {}
func (PresenceFrame) frame()    {}
func (ChatMessageFrame) frame() {}
func (ErrorFrame) frame()       {}

// OutboundMessage is the only frame shape the client ever sends.
type OutboundMessage struct {
	Content string `json:"content"`
}

type wireFrame struct {
	Type        string `json:"type"`
	RoomID      int64  `json:"room_id"`
	TeamName    string `json:"team_name"`
	ActiveUsers any    `json:"active_users"`
	MessageID   int64  `json:"message_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	Content     string `json:"content"`
	CreatedAt   string `json:"created_at"`
	ChatDate    string `json:"chat_date"`
	Message     string `json:"message"`
}

// DecodeFrame parses an inbound payload into one of the frame kinds.
// A payload that does not decode, or whose type is not recognized,
// returns an error; callers log and drop such frames without any state
// transition.
func DecodeFrame(data []byte) (Frame, error) {
	var w wireFrame
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	switch w.Type {
	case "welcome":
		return WelcomeFrame{
			RoomID:      w.RoomID,
			TeamName:    w.TeamName,
			ActiveUsers: coerceCount(w.ActiveUsers),
		}, nil
	case "presence":
		return PresenceFrame{
			RoomID:      w.RoomID,
			ActiveUsers: coerceCount(w.ActiveUsers),
		}, nil
	case "chat_message":
		return ChatMessageFrame{
			Message: Message{
				ID:        w.MessageID,
				RoomID:    w.RoomID,
				UserID:    w.UserID,
				Username:  w.Username,
				Content:   w.Content,
				CreatedAt: w.CreatedAt,
				ChatDate:  w.ChatDate,
			},
		}, nil
	case "error":
		return ErrorFrame{Message: w.Message}, nil
	default:
		return nil, fmt.Errorf("unknown frame type %q", w.Type)
	}
}

// coerceCount turns whatever the backend put into active_users into a
// non-negative int. Missing or non-numeric values become 0 so a room
// never displays a broken count.
func coerceCount(v any) int {
	var n int
	switch c := v.(type) {
	case float64:
		n = int(c)
	case json.Number:
		if i, err := c.Int64(); err == nil {
			n = int(i)
		}
	case int:
		n = c
	case int64:
		n = int(c)
	}
	if n < 0 {
		return 0
	}
	return n
}
