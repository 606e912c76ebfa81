package records

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/2beens/fittrack/internal/dates"
)

type BodyWeight struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Date      dates.Date `json:"date"`
	Weight    float64    `json:"weight"` // kg
	CreatedAt time.Time  `json:"created_at"`
}

func (b BodyWeight) Key() uuid.UUID {
	return b.ID
}

func (b BodyWeight) WithOwner(owner uuid.UUID) BodyWeight {
	b.UserID = owner
	return b
}

func (b BodyWeight) Clone() BodyWeight {
	return b
}

func (b BodyWeight) Validate() error {
	return errors.Join(
		requireDate("date", b.Date),
		requireNonNegative("weight", b.Weight),
	)
}
