package weight

import (
	"math"
	"time"

	"github.com/burenotti/gym_tracker_backend/internal/domain/user"
)

var ErrInvalidWeight = user.ErrInvalidWeight

// Validate rejects weights that are not positive finite numbers.
func Validate(w float64) error {
	if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return ErrInvalidWeight
	}
	return nil
}

// Entry is an immutable weight history record.
type Entry struct {
	EntryID             string
	UserID              string
	Weight              float64
	PreviousWeight      *float64
	DaysSinceLastChange *int
	RecordedAt          time.Time
	Notes               *string
}

// NewEntry builds the entry that follows last. last is nil for the first
// entry of a user.
func NewEntry(entryID, userID string, weight float64, notes *string, last *Entry, now time.Time) (*Entry, error) {
	if err := Validate(weight); err != nil {
		return nil, err
	}

	e := &Entry{
		EntryID:    entryID,
		UserID:     userID,
		Weight:     weight,
		RecordedAt: now,
		Notes:      notes,
	}

	if last != nil {
		prev := last.Weight
		days := DaysBetween(last.RecordedAt, now)
		e.PreviousWeight = &prev
		e.DaysSinceLastChange = &days
	}

	return e, nil
}

// DaysBetween returns the number of whole days elapsed from since to now.
func DaysBetween(since, now time.Time) int {
	return int(math.Floor(now.Sub(since).Hours() / 24))
}
