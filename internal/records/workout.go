package records

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/2beens/fittrack/internal/dates"
)

type Workout struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Date         dates.Date `json:"date"`
	ExerciseName string     `json:"exercise_name"`
	Sets         int        `json:"sets"`
	Reps         int        `json:"reps"`
	Weight       float64    `json:"weight"`   // kg
	Duration     float64    `json:"duration"` // minutes
	Notes        *string    `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (w Workout) Key() uuid.UUID {
	return w.ID
}

func (w Workout) WithOwner(owner uuid.UUID) Workout {
	w.UserID = owner
	return w
}

func (w Workout) Clone() Workout {
	w.Notes = cloneString(w.Notes)
	return w
}

func (w Workout) Validate() error {
	return errors.Join(
		requireDate("date", w.Date),
		requireText("exercise_name", w.ExerciseName),
		requireCount("sets", w.Sets),
		requireCount("reps", w.Reps),
		requireNonNegative("weight", w.Weight),
		requireNonNegative("duration", w.Duration),
	)
}
