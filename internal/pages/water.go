package pages

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"

	"github.com/google/uuid"

	"github.com/2beens/fittrack/internal/aggregate"
	"github.com/2beens/fittrack/internal/dates"
	"github.com/2beens/fittrack/internal/records"
)

const defaultWaterAmountML = 250

var QuickWaterAmounts = []int{250, 500, 750, 1000}

type WaterRow struct {
	ID       uuid.UUID `json:"id"`
	Date     string    `json:"date"`
	AmountML int       `json:"amount_ml"`
	Liters   string    `json:"liters"`
}

type WaterOptions struct {
	QuickAmounts []int `json:"quick_amounts"`
}

func waterPoint(w records.WaterIntake) aggregate.Dated {
	return aggregate.Dated{Date: w.Date, Value: float64(w.AmountML)}
}

// prefillAmount reads ?amount=, falling back to the default for anything that
// is not a non-negative integer.
func prefillAmount(prefill url.Values) int {
	raw := prefill.Get("amount")
	if raw == "" {
		return defaultWaterAmountML
	}
	amount, err := strconv.Atoi(raw)
	if err != nil || amount < 0 {
		return defaultWaterAmountML
	}
	return amount
}

func WaterPage() PageSpec[records.WaterIntake] {
	return PageSpec[records.WaterIntake]{
		Name:      "water",
		Entity:    "water_intake",
		Title:     "Water Intake",
		FormTitle: "Water Intake",
		Order:     records.OrderDateDesc,
		Messages: Messages{
			LoadFailed:   "Failed to load water intake data",
			Added:        "Water intake added successfully",
			Updated:      "Water intake updated successfully",
			SaveFailed:   "Failed to save water intake data",
			Deleted:      "Water intake deleted successfully",
			DeleteFailed: "Failed to delete water intake",
		},
		Empty: EmptyState{
			Title:       "No water intake records yet",
			Description: "Start tracking your hydration by adding your first water intake.",
			Action:      "Add Water",
		},
		Options: WaterOptions{QuickAmounts: slices.Clone(QuickWaterAmounts)},
		Blank: func(today dates.Date, prefill url.Values) records.WaterIntake {
			return records.WaterIntake{Date: today, AmountML: prefillAmount(prefill)}
		},
		Rows: func(intakes []records.WaterIntake, _ dates.Date) any {
			rows := make([]WaterRow, len(intakes))
			for i, w := range intakes {
				rows[i] = WaterRow{
					ID:       w.ID,
					Date:     w.Date.LongLabel(),
					AmountML: w.AmountML,
					Liters:   fmt.Sprintf("%.2f", aggregate.MillilitersToLiters(float64(w.AmountML))),
				}
			}
			return rows
		},
		Charts: func(intakes []records.WaterIntake) []Chart {
			totals := aggregate.DailyTotals(aggregate.Project(intakes, waterPoint), aggregate.WindowDays)
			return []Chart{
				newChart(
					"Water Intake (Last 7 Days)",
					ChartBar,
					"Water Intake (L)",
					totals.Map(aggregate.MillilitersToLiters),
					"",
				),
			}
		},
	}
}
