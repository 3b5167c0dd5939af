package chat

import (
	"github.com/irobinett3/footy-social/internal/models"
)

// Reconciler merges the fetched history with the live inbound stream
// into one deduplicated transcript for the active room. Order is
// history in fetch order followed by live messages in arrival order;
// no resorting is ever performed.
type Reconciler struct {
	messages []models.Message
	seen     map[int64]struct{}
}

func NewReconciler() *Reconciler {
	return &Reconciler{
		seen: make(map[int64]struct{}),
	}
}

// SetHistory replaces the transcript wholesale, including any live
// messages or seed data applied before the fetch resolved. Duplicate
// identifiers inside the history itself keep the first occurrence.
func (r *Reconciler) SetHistory(msgs []models.Message) {
	r.messages = r.messages[:0]
	clear(r.seen)
	for _, msg := range msgs {
		r.apply(msg)
	}
}

// Apply appends a live message unless its identifier is already
// present. Applying the same message twice is a no-op after the first
// application. Reports whether the message was admitted.
func (r *Reconciler) Apply(msg models.Message) bool {
	return r.apply(msg)
}

func (r *Reconciler) apply(msg models.Message) bool {
	if _, ok := r.seen[msg.ID]; ok {
		return false
	}
	r.seen[msg.ID] = struct{}{}
	r.messages = append(r.messages, msg)
	return true
}

// Reset empties the transcript.
func (r *Reconciler) Reset() {
	r.messages = nil
	clear(r.seen)
}

// Messages returns a copy of the transcript in visible order.
func (r *Reconciler) Messages() []models.Message {
	out := make([]models.Message, len(r.messages))
	copy(out, r.messages)
	return out
}

func (r *Reconciler) Len() int {
	return len(r.messages)
}
