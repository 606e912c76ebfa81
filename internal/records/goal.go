package records

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/2beens/fittrack/internal/dates"
)

type TargetType string

const (
	TargetWeight  TargetType = "weight"
	TargetWorkout TargetType = "workout"
	TargetWater   TargetType = "water"
	TargetSleep   TargetType = "sleep"
)

var TargetTypes = []TargetType{TargetWeight, TargetWorkout, TargetWater, TargetSleep}

func (t TargetType) Valid() bool {
	switch t {
	case TargetWeight, TargetWorkout, TargetWater, TargetSleep:
		return true
	default:
		return false
	}
}

// Unit is shown next to the target value.
func (t TargetType) Unit() string {
	switch t {
	case TargetWeight:
		return "kg"
	case TargetWater:
		return "L"
	case TargetSleep:
		return "hrs"
	default:
		return "per week"
	}
}

func (t TargetType) Label() string {
	switch t {
	case TargetWeight:
		return "Weight (kg)"
	case TargetWorkout:
		return "Workouts per week"
	case TargetWater:
		return "Daily water intake (L)"
	case TargetSleep:
		return "Sleep duration (hrs)"
	default:
		return string(t)
	}
}

type Goal struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	TargetType  TargetType `json:"target_type"`
	TargetValue float64    `json:"target_value"`
	Deadline    dates.Date `json:"deadline"`
	Notes       *string    `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (g Goal) Key() uuid.UUID {
	return g.ID
}

func (g Goal) WithOwner(owner uuid.UUID) Goal {
	g.UserID = owner
	return g
}

func (g Goal) Clone() Goal {
	g.Notes = cloneString(g.Notes)
	return g
}

func (g Goal) Validate() error {
	var typeErr error
	if !g.TargetType.Valid() {
		typeErr = &ValidationError{
			Field:   "target_type",
			Message: fmt.Sprintf("must be one of %v", TargetTypes),
		}
	}
	return errors.Join(
		requireText("title", g.Title),
		typeErr,
		requireNonNegative("target_value", g.TargetValue),
		requireDate("deadline", g.Deadline),
	)
}
