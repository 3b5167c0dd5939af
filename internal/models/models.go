package models

import "errors"

var (
	ErrNotFound = errors.New("not found")
)

// User represents the signed-in supporter as reported by the auth service.
type User struct {
	ID           string `json:"user_id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Bio          string `json:"bio"`
	FavoriteTeam string `json:"favorite_team"`
}

// Room is a fan-room summary from the room directory. ActiveUsers is a
// last-known snapshot; live presence frames supersede it.
type Room struct {
	ID          int64  `json:"id"`
	TeamName    string `json:"team_name"`
	DisplayName string `json:"display_name"`
	ActiveUsers int    `json:"active_users"`
	IsGlobal    bool   `json:"is_global"`
}

// Message is a single chat message, immutable once received.
// CreatedAt carries the backend timestamp string verbatim: transcript
// order is arrival order, never a timestamp sort.
type Message struct {
	ID        int64  `json:"message_id"`
	RoomID    int64  `json:"room_id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	ChatDate  string `json:"chat_date,omitempty"`
}
