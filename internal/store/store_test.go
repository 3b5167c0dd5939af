package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/irobinett3/footy-social/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "store_test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	s, err := Open(filepath.Join(tmpDir, "cache.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestStore_Transcripts(t *testing.T) {
	s := openTestStore(t)

	msgs := []models.Message{
		{ID: 1, RoomID: 7, UserID: "u1", Username: "alice", Content: "kickoff!", CreatedAt: "2025-09-01T15:00:00", ChatDate: "2025-09-01"},
		{ID: 2, RoomID: 7, UserID: "u2", Username: "bob", Content: "https://media.example.com/goal.gif", CreatedAt: "2025-09-01T15:20:00", ChatDate: "2025-09-01"},
	}

	if err := s.SaveTranscript(7, "2025-09-01", msgs); err != nil {
		t.Fatalf("SaveTranscript failed: %v", err)
	}

	got, err := s.LoadTranscript(7, "2025-09-01")
	if err != nil {
		t.Fatalf("LoadTranscript failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].Content != "kickoff!" || got[1].Username != "bob" {
		t.Errorf("round trip mismatch: %+v", got)
	}

	t.Run("overwrite replaces snapshot", func(t *testing.T) {
		if err := s.SaveTranscript(7, "2025-09-01", msgs[:1]); err != nil {
			t.Fatalf("SaveTranscript failed: %v", err)
		}
		got, err := s.LoadTranscript(7, "2025-09-01")
		if err != nil {
			t.Fatalf("LoadTranscript failed: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("expected snapshot replaced, got %d messages", len(got))
		}
	})

	t.Run("different day misses", func(t *testing.T) {
		_, err := s.LoadTranscript(7, "2025-09-02")
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("different room misses", func(t *testing.T) {
		_, err := s.LoadTranscript(8, "2025-09-01")
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestStore_Rooms(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.LoadRooms(); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound on empty store, got %v", err)
	}

	rooms := []models.Room{
		{ID: 1, TeamName: "FootySocial Hub", DisplayName: "FootySocial Hub", ActiveUsers: 40, IsGlobal: true},
		{ID: 2, TeamName: "Arsenal", DisplayName: "Arsenal Fans", ActiveUsers: 12},
	}
	if err := s.SaveRooms(rooms); err != nil {
		t.Fatalf("SaveRooms failed: %v", err)
	}

	got, err := s.LoadRooms()
	if err != nil {
		t.Fatalf("LoadRooms failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(got))
	}
	if !got[0].IsGlobal || got[1].TeamName != "Arsenal" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
