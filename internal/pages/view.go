package pages

import (
	"bytes"
	"html"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"

	"github.com/2beens/fittrack/internal/aggregate"
)

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient message shown once, after an operation completes.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

func successNotice(msg string) *Notice {
	return &Notice{Level: NoticeSuccess, Message: msg}
}

func errorNotice(msg string) *Notice {
	return &Notice{Level: NoticeError, Message: msg}
}

type ChartType string

const (
	ChartLine ChartType = "line"
	ChartBar  ChartType = "bar"
)

// Chart is a series ready to draw. An empty chart carries its empty message
// and no points, never a zero point.
type Chart struct {
	Title        string           `json:"title"`
	Type         ChartType        `json:"type"`
	DatasetLabel string           `json:"dataset_label"`
	Points       aggregate.Series `json:"points"`
	Empty        bool             `json:"empty"`
	EmptyMessage string           `json:"empty_message,omitempty"`
}

func newChart(title string, chartType ChartType, datasetLabel string, points aggregate.Series, emptyMessage string) Chart {
	if points == nil {
		points = aggregate.Series{}
	}
	return Chart{
		Title:        title,
		Type:         chartType,
		DatasetLabel: datasetLabel,
		Points:       points,
		Empty:        len(points) == 0,
		EmptyMessage: emptyMessage,
	}
}

// StatsCard is a dashboard tile.
type StatsCard struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Link  string `json:"link"`
}

type EmptyState struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Action      string `json:"action"`
}

type FormMode string

const (
	FormModeCreating FormMode = "creating"
	FormModeEditing  FormMode = "editing"
)

type FormView struct {
	Mode   FormMode   `json:"mode"`
	Title  string     `json:"title"`
	ID     *uuid.UUID `json:"id,omitempty"`
	Record any        `json:"record"`
}

// PageView is the JSON rendering of an entity page.
type PageView struct {
	Page     string      `json:"page"`
	Title    string      `json:"title"`
	Identity bool        `json:"identity"`
	Loading  bool        `json:"loading"`
	Rows     any         `json:"rows"`
	Charts   []Chart     `json:"charts,omitempty"`
	Options  any         `json:"options,omitempty"`
	Form     *FormView   `json:"form,omitempty"`
	Empty    *EmptyState `json:"empty,omitempty"`
	Notice   *Notice     `json:"notice,omitempty"`
}

var notesRenderer = goldmark.New()

// RenderNotes renders markdown notes to HTML. Raw HTML in notes is not passed
// through.
func RenderNotes(notes *string) string {
	if notes == nil || *notes == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := notesRenderer.Convert([]byte(*notes), &buf); err != nil {
		log.Errorf("render notes: %s", err)
		return html.EscapeString(*notes)
	}
	return buf.String()
}
