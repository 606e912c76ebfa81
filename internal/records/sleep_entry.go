package records

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/2beens/fittrack/internal/dates"
)

type SleepEntry struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Date       dates.Date `json:"date"`
	DurationHr float64    `json:"duration_hr"`
	Notes      *string    `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (s SleepEntry) Key() uuid.UUID {
	return s.ID
}

func (s SleepEntry) WithOwner(owner uuid.UUID) SleepEntry {
	s.UserID = owner
	return s
}

func (s SleepEntry) Clone() SleepEntry {
	s.Notes = cloneString(s.Notes)
	return s
}

func (s SleepEntry) Validate() error {
	return errors.Join(
		requireDate("date", s.Date),
		requireNonNegative("duration_hr", s.DurationHr),
	)
}
