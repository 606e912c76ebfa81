package pages

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/2beens/fittrack/internal/aggregate"
	"github.com/2beens/fittrack/internal/dates"
	"github.com/2beens/fittrack/internal/records"
)

type SleepRow struct {
	ID         uuid.UUID `json:"id"`
	Date       string    `json:"date"`
	DurationHr float64   `json:"duration_hr"`
	NotesHTML  string    `json:"notes_html,omitempty"`
}

func sleepPoint(s records.SleepEntry) aggregate.Dated {
	return aggregate.Dated{Date: s.Date, Value: s.DurationHr}
}

// SleepPage loads ascending for the chart; the list shows the latest night first.
func SleepPage() PageSpec[records.SleepEntry] {
	return PageSpec[records.SleepEntry]{
		Name:      "sleep",
		Entity:    "sleep_entry",
		Title:     "Sleep Tracker",
		FormTitle: "Sleep Record",
		Order:     records.OrderDateAsc,
		Messages: Messages{
			LoadFailed:   "Failed to load sleep data",
			Added:        "Sleep entry added successfully",
			Updated:      "Sleep entry updated successfully",
			SaveFailed:   "Failed to save sleep data",
			Deleted:      "Sleep record deleted successfully",
			DeleteFailed: "Failed to delete sleep record",
		},
		Empty: EmptyState{
			Title:       "No sleep records yet",
			Description: "Start tracking your sleep patterns by adding your first sleep record.",
			Action:      "Add Your First Sleep Record",
		},
		Blank: func(today dates.Date, _ url.Values) records.SleepEntry {
			return records.SleepEntry{Date: today}
		},
		Rows: func(entries []records.SleepEntry, _ dates.Date) any {
			rows := make([]SleepRow, len(entries))
			for i, s := range entries {
				rows[len(entries)-1-i] = SleepRow{
					ID:         s.ID,
					Date:       s.Date.LongLabel(),
					DurationHr: s.DurationHr,
					NotesHTML:  RenderNotes(s.Notes),
				}
			}
			return rows
		},
		Charts: func(entries []records.SleepEntry) []Chart {
			points := aggregate.Chronological(aggregate.Project(entries, sleepPoint))
			return []Chart{
				newChart("Sleep Duration Trend", ChartLine, "Sleep Duration (hours)", points, ""),
			}
		},
	}
}
