package schedule

import (
	"time"

	"github.com/shrimpsizemoose/kardemumma/internal/models"
)

// State is a slot's lifecycle stage, derived from the clock and occupancy on
// every call. It is never persisted: storing it would go stale the moment the
// clock moves.
type State string

const (
	// StateOpen: joinable and leavable.
	StateOpen State = "open"
	// StateClosing: still joinable, but the leave lead time has passed.
	StateClosing State = "closing"
	// StateLocked: inside the join lead time; neither join nor leave.
	StateLocked State = "locked"
	// StateFull: occupancy reached capacity; join conflicts regardless of time.
	StateFull State = "full"
)

// Classify derives the slot state from the two lead-time thresholds plus
// occupancy. The join/leave gates themselves are separate numeric checks in
// the engine; this is the summary view.
func Classify(slot models.Slot, now time.Time, joinLead, leaveLead time.Duration) State {
	if slot.Occupancy() >= slot.MaxMembers {
		return StateFull
	}
	if !now.Before(slot.StartTime.Add(-joinLead)) {
		return StateLocked
	}
	if !now.Before(slot.StartTime.Add(-leaveLead)) {
		return StateClosing
	}
	return StateOpen
}

// overlaps tests half-open [start, end) interval intersection, so slots that
// touch at a boundary do not collide.
func overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}
