package chat

// presenceTracker holds the participant count for the active room.
// Directory snapshots may seed the count; the first live welcome or
// presence signal supersedes the seed and every later signal wins over
// the previous one.
type presenceTracker struct {
	count    int
	onChange func(roomID int64, count int)
}

// Seed sets an initial count without notifying the parent listing.
func (p *presenceTracker) Seed(count int) {
	if count < 0 {
		count = 0
	}
	p.count = count
}

// Update records a live presence signal and notifies the parent
// listing so a room directory can reflect occupancy without holding a
// connection of its own.
func (p *presenceTracker) Update(roomID int64, count int) {
	if count < 0 {
		count = 0
	}
	p.count = count
	if p.onChange != nil {
		p.onChange(roomID, count)
	}
}

func (p *presenceTracker) Count() int {
	return p.count
}
