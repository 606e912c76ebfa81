package pages

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/2beens/fittrack/internal/aggregate"
	"github.com/2beens/fittrack/internal/dates"
	"github.com/2beens/fittrack/internal/records"
)

const goalDeadlineDays = 30

type GoalCard struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	TargetType  string    `json:"target_type"`
	TypeLabel   string    `json:"type_label"`
	TargetValue float64   `json:"target_value"`
	Unit        string    `json:"unit"`
	Deadline    string    `json:"deadline"`
	Expired     bool      `json:"expired"`
	NotesHTML   string    `json:"notes_html,omitempty"`
}

type TargetTypeOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type GoalOptions struct {
	TargetTypes []TargetTypeOption `json:"target_types"`
}

func goalOptions() GoalOptions {
	opts := GoalOptions{TargetTypes: make([]TargetTypeOption, len(records.TargetTypes))}
	for i, tt := range records.TargetTypes {
		opts.TargetTypes[i] = TargetTypeOption{Value: string(tt), Label: tt.Label()}
	}
	return opts
}

func GoalsPage() PageSpec[records.Goal] {
	return PageSpec[records.Goal]{
		Name:      "goals",
		Entity:    "goal",
		Title:     "Fitness Goals",
		FormTitle: "Goal",
		Order:     records.OrderDateAsc,
		Messages: Messages{
			LoadFailed:   "Failed to load goals data",
			Added:        "Goal added successfully",
			Updated:      "Goal updated successfully",
			SaveFailed:   "Failed to save goal",
			Deleted:      "Goal deleted successfully",
			DeleteFailed: "Failed to delete goal",
		},
		Empty: EmptyState{
			Title:       "No goals set yet",
			Description: "Start by setting your first fitness goal to track your progress.",
			Action:      "Set Your First Goal",
		},
		Options: goalOptions(),
		Blank: func(today dates.Date, _ url.Values) records.Goal {
			return records.Goal{
				TargetType: records.TargetWeight,
				Deadline:   today.AddDays(goalDeadlineDays),
			}
		},
		Rows: func(goals []records.Goal, today dates.Date) any {
			cards := make([]GoalCard, len(goals))
			for i, g := range goals {
				cards[i] = GoalCard{
					ID:          g.ID,
					Title:       g.Title,
					TargetType:  string(g.TargetType),
					TypeLabel:   g.TargetType.Label(),
					TargetValue: g.TargetValue,
					Unit:        g.TargetType.Unit(),
					Deadline:    g.Deadline.LongLabel(),
					Expired:     aggregate.IsExpired(g.Deadline, today),
					NotesHTML:   RenderNotes(g.Notes),
				}
			}
			return cards
		},
	}
}
