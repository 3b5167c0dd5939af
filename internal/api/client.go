// Package api is the HTTP client for the FootySocial backend: room
// directory, message history, auth endpoints and the websocket dialer
// for the real-time channel.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/c-pro/geche"
	"github.com/gorilla/websocket"
	"github.com/irobinett3/footy-social/internal/chat"
	"github.com/irobinett3/footy-social/internal/models"
	"github.com/irobinett3/footy-social/internal/session"
)

const roomsCacheKey = "rooms"

type Config struct {
	BaseURL  string
	WSURL    string
	Timeout  time.Duration
	RoomsTTL time.Duration
}

type Client struct {
	baseURL string
	wsURL   string
	http    *http.Client
	sess    *session.Session
	rooms   geche.Geche[string, []models.Room]
}

func New(ctx context.Context, cfg Config, sess *session.Session) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	roomsTTL := cfg.RoomsTTL
	if roomsTTL == 0 {
		roomsTTL = 30 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		wsURL:   cfg.WSURL,
		http:    &http.Client{Timeout: timeout},
		sess:    sess,
		rooms:   geche.NewMapTTLCache[string, []models.Room](ctx, roomsTTL, time.Minute),
	}
}

// Login exchanges credentials for a bearer token, loads the user
// profile and signs the session in.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var tokenResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}

	body := map[string]string{"username": username, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login-json", body, "", &tokenResp); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	var user models.User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, tokenResp.AccessToken, &user); err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}

	c.sess.SignIn(user, tokenResp.AccessToken)
	return nil
}

// Rooms returns the room directory, global room first. Listings are
// cached briefly so a directory view can poll without hammering the
// backend.
func (c *Client) Rooms(ctx context.Context) ([]models.Room, error) {
	if cached, err := c.rooms.Get(roomsCacheKey); err == nil {
		return cached, nil
	}

	var rooms []models.Room
	if err := c.doJSON(ctx, http.MethodGet, "/fanrooms/", nil, c.sess.Token(), &rooms); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	c.rooms.Set(roomsCacheKey, rooms)
	return rooms, nil
}

// Room returns a single room summary, bypassing the directory cache.
func (c *Client) Room(ctx context.Context, roomID int64) (models.Room, error) {
	var room models.Room
	path := fmt.Sprintf("/fanrooms/%d", roomID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, c.sess.Token(), &room); err != nil {
		return models.Room{}, fmt.Errorf("get room %d: %w", roomID, err)
	}
	return room, nil
}

// RoomMessages returns today's message history for a room in backend
// order. Implements chat.HistoryFetcher.
func (c *Client) RoomMessages(ctx context.Context, roomID int64) ([]models.Message, error) {
	var msgs []models.Message
	path := fmt.Sprintf("/fanrooms/%d/messages", roomID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, c.sess.Token(), &msgs); err != nil {
		return nil, fmt.Errorf("room %d history: %w", roomID, err)
	}
	return msgs, nil
}

// Dial opens the real-time channel for a room. Implements chat.Dialer.
func (c *Client) Dial(ctx context.Context, roomID int64, token string) (chat.Conn, error) {
	target := fmt.Sprintf("%s/fanrooms/ws/%d?token=%s", c.wsURL, roomID, url.QueryEscape(token))
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return nil, fmt.Errorf("dial room %d: %w", roomID, err)
	}
	return conn, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, token string, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-Id", c.sess.ClientID())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError extracts the backend's {"detail": "..."} error body when
// present.
func apiError(resp *http.Response) error {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Detail != "" {
		return fmt.Errorf("%s: %s", resp.Status, payload.Detail)
	}
	if resp.StatusCode == http.StatusNotFound {
		return models.ErrNotFound
	}
	return fmt.Errorf("unexpected status %s", resp.Status)
}
