package chat

import (
	"fmt"
	"testing"

	"github.com/irobinett3/footy-social/internal/models"
)

func msg(id int64, room int64, content string) models.Message {
	return models.Message{
		ID:       id,
		RoomID:   room,
		Username: "alice",
		Content:  content,
	}
}

func TestReconciler_HistoryThenLive(t *testing.T) {
	r := NewReconciler()

	r.SetHistory([]models.Message{msg(1, 7, "first"), msg(2, 7, "second")})
	if r.Len() != 2 {
		t.Fatalf("expected 2 messages after history, got %d", r.Len())
	}

	if !r.Apply(msg(3, 7, "live")) {
		t.Error("fresh live message was rejected")
	}

	got := r.Messages()
	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got))
	}
	if got[0].Content != "first" || got[2].Content != "live" {
		t.Errorf("unexpected order: %v", got)
	}
}

func TestReconciler_DuplicateFromHistory(t *testing.T) {
	// A live frame re-delivering a message already in history must not
	// grow the transcript.
	r := NewReconciler()
	r.SetHistory([]models.Message{msg(1, 7, "hello")})

	if r.Apply(msg(1, 7, "hello")) {
		t.Error("duplicate of history message was admitted")
	}
	if r.Len() != 1 {
		t.Errorf("expected length 1, got %d", r.Len())
	}
}

func TestReconciler_ApplyIdempotent(t *testing.T) {
	r := NewReconciler()

	live := msg(5, 7, "once")
	if !r.Apply(live) {
		t.Fatal("first apply rejected")
	}
	if r.Apply(live) {
		t.Error("second apply of identical payload was admitted")
	}

	want := r.Messages()
	r.Apply(live)
	got := r.Messages()
	if len(got) != len(want) {
		t.Errorf("transcript changed on repeated apply: %d vs %d", len(got), len(want))
	}
}

func TestReconciler_SetHistoryReplacesWholesale(t *testing.T) {
	r := NewReconciler()
	r.Apply(msg(10, 7, "early live"))

	r.SetHistory([]models.Message{msg(1, 7, "a"), msg(2, 7, "b")})

	got := r.Messages()
	if len(got) != 2 {
		t.Fatalf("expected history to replace transcript, got %d messages", len(got))
	}
	for _, m := range got {
		if m.ID == 10 {
			t.Error("pre-history live message survived wholesale replace")
		}
	}

	// The early live message may arrive again on the stream and must
	// now be admitted exactly once.
	if !r.Apply(msg(10, 7, "early live")) {
		t.Error("redelivery after replace was rejected")
	}
}

func TestReconciler_HistoryInternalDuplicates(t *testing.T) {
	r := NewReconciler()
	r.SetHistory([]models.Message{msg(1, 7, "keep"), msg(1, 7, "drop")})

	got := r.Messages()
	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
	if got[0].Content != "keep" {
		t.Errorf("expected first occurrence to win, got %q", got[0].Content)
	}
}

func TestReconciler_Reset(t *testing.T) {
	r := NewReconciler()
	for i := range 5 {
		r.Apply(msg(int64(i), 7, fmt.Sprintf("msg %d", i)))
	}

	r.Reset()
	if r.Len() != 0 {
		t.Errorf("expected empty transcript after reset, got %d", r.Len())
	}
	if !r.Apply(msg(0, 7, "again")) {
		t.Error("message rejected after reset")
	}
}
