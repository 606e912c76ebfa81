package pages

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/2beens/fittrack/internal/dates"
	"github.com/2beens/fittrack/internal/records"
)

type WorkoutRow struct {
	ID           uuid.UUID `json:"id"`
	Date         string    `json:"date"`
	ExerciseName string    `json:"exercise_name"`
	Sets         int       `json:"sets"`
	Reps         int       `json:"reps"`
	Weight       float64   `json:"weight"`
	Duration     float64   `json:"duration"`
	NotesHTML    string    `json:"notes_html,omitempty"`
}

func WorkoutsPage() PageSpec[records.Workout] {
	return PageSpec[records.Workout]{
		Name:      "workouts",
		Entity:    "workout",
		Title:     "Workout Tracker",
		FormTitle: "Workout",
		Order:     records.OrderDateDesc,
		Messages: Messages{
			LoadFailed:   "Failed to load workout data",
			Added:        "Workout added successfully",
			Updated:      "Workout updated successfully",
			SaveFailed:   "Failed to save workout data",
			Deleted:      "Workout deleted successfully",
			DeleteFailed: "Failed to delete workout",
		},
		Empty: EmptyState{
			Title:       "No workouts yet",
			Description: "Start tracking your fitness journey by adding your first workout.",
			Action:      "Add Workout",
		},
		Blank: func(today dates.Date, _ url.Values) records.Workout {
			return records.Workout{Date: today}
		},
		Rows: func(workouts []records.Workout, _ dates.Date) any {
			rows := make([]WorkoutRow, len(workouts))
			for i, w := range workouts {
				rows[i] = WorkoutRow{
					ID:           w.ID,
					Date:         w.Date.LongLabel(),
					ExerciseName: w.ExerciseName,
					Sets:         w.Sets,
					Reps:         w.Reps,
					Weight:       w.Weight,
					Duration:     w.Duration,
					NotesHTML:    RenderNotes(w.Notes),
				}
			}
			return rows
		},
	}
}
