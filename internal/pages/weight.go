package pages

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/2beens/fittrack/internal/aggregate"
	"github.com/2beens/fittrack/internal/dates"
	"github.com/2beens/fittrack/internal/records"
)

type WeightRow struct {
	ID     uuid.UUID `json:"id"`
	Date   string    `json:"date"`
	Weight float64   `json:"weight"`
}

func weightPoint(b records.BodyWeight) aggregate.Dated {
	return aggregate.Dated{Date: b.Date, Value: b.Weight}
}

func WeightPage() PageSpec[records.BodyWeight] {
	return PageSpec[records.BodyWeight]{
		Name:      "weight",
		Entity:    "body_weight",
		Title:     "Weight Tracker",
		FormTitle: "Weight",
		Order:     records.OrderDateAsc,
		Messages: Messages{
			LoadFailed:   "Failed to load weight data",
			Added:        "Weight added successfully",
			Updated:      "Weight updated successfully",
			SaveFailed:   "Failed to save weight data",
			Deleted:      "Weight record deleted successfully",
			DeleteFailed: "Failed to delete weight record",
		},
		Empty: EmptyState{
			Title:       "No weight records yet",
			Description: "Start tracking your weight changes by adding your first record.",
			Action:      "Add Weight",
		},
		Blank: func(today dates.Date, _ url.Values) records.BodyWeight {
			return records.BodyWeight{Date: today}
		},
		Rows: func(weights []records.BodyWeight, _ dates.Date) any {
			rows := make([]WeightRow, len(weights))
			for i, w := range weights {
				rows[i] = WeightRow{ID: w.ID, Date: w.Date.LongLabel(), Weight: w.Weight}
			}
			return rows
		},
		Charts: func(weights []records.BodyWeight) []Chart {
			points := aggregate.Chronological(aggregate.Project(weights, weightPoint))
			return []Chart{
				newChart("Weight Progress", ChartLine, "Weight (kg)", points, ""),
			}
		},
	}
}
