package records

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/2beens/fittrack/internal/dates"
)

// WaterIntake is a single drink; a day usually has several.
type WaterIntake struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Date      dates.Date `json:"date"`
	AmountML  int        `json:"amount_ml"`
	CreatedAt time.Time  `json:"created_at"`
}

func (w WaterIntake) Key() uuid.UUID {
	return w.ID
}

func (w WaterIntake) WithOwner(owner uuid.UUID) WaterIntake {
	w.UserID = owner
	return w
}

func (w WaterIntake) Clone() WaterIntake {
	return w
}

func (w WaterIntake) Validate() error {
	return errors.Join(
		requireDate("date", w.Date),
		requireCount("amount_ml", w.AmountML),
	)
}
