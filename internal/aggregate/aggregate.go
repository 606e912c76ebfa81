// Package aggregate shapes fetched records into chart and table series.
// Every function here is pure; "today" is always passed in by the caller.
package aggregate

import (
	"slices"

	"github.com/2beens/fittrack/internal/dates"
)

// WindowDays is the width of the trailing windows used by the charts.
const WindowDays = 7

// Point is one labelled value of a chart series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Series []Point

func (s Series) Labels() []string {
	labels := make([]string, len(s))
	for i, p := range s {
		labels[i] = p.Label
	}
	return labels
}

func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value
	}
	return values
}

// Map returns a copy of s with fn applied to every value.
func (s Series) Map(fn func(float64) float64) Series {
	out := make(Series, len(s))
	for i, p := range s {
		out[i] = Point{Label: p.Label, Value: fn(p.Value)}
	}
	return out
}

// Dated is a single (date, value) observation projected out of a record.
type Dated struct {
	Date  dates.Date
	Value float64
}

// Project maps records to observations.
func Project[T any](rows []T, fn func(T) Dated) []Dated {
	out := make([]Dated, len(rows))
	for i, row := range rows {
		out[i] = fn(row)
	}
	return out
}

// Chronological sorts observations ascending by date and labels them.
// The sort is stable: observations sharing a date keep their input order and
// are all kept, one point each.
func Chronological(rows []Dated) Series {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b Dated) int {
		return a.Date.Compare(b.Date)
	})

	series := make(Series, len(sorted))
	for i, row := range sorted {
		series[i] = Point{Label: row.Date.ChartLabel(), Value: row.Value}
	}
	return series
}

// WeeklyFrequency counts how many of days fall on each of the WindowDays
// calendar days ending at today (inclusive). The result always has WindowDays
// points, ascending, zero-filled; days outside the window are ignored.
func WeeklyFrequency(days []dates.Date, today dates.Date) Series {
	start := today.AddDays(-(WindowDays - 1))

	counts := make(map[dates.Date]int, WindowDays)
	for _, d := range days {
		if d.Before(start) || d.After(today) {
			continue
		}
		counts[d]++
	}

	series := make(Series, WindowDays)
	for i := range WindowDays {
		day := start.AddDays(i)
		series[i] = Point{Label: day.ChartLabel(), Value: float64(counts[day])}
	}
	return series
}

// DailyTotals sums observations sharing a date and returns the n most recent
// dates present, ascending. Dates without observations are not zero-filled.
func DailyTotals(rows []Dated, n int) Series {
	if n <= 0 || len(rows) == 0 {
		return Series{}
	}

	totals := make(map[dates.Date]float64)
	var days []dates.Date
	for _, row := range rows {
		if _, seen := totals[row.Date]; !seen {
			days = append(days, row.Date)
		}
		totals[row.Date] += row.Value
	}

	slices.SortFunc(days, func(a, b dates.Date) int {
		return a.Compare(b)
	})
	if len(days) > n {
		days = days[len(days)-n:]
	}

	series := make(Series, len(days))
	for i, day := range days {
		series[i] = Point{Label: day.ChartLabel(), Value: totals[day]}
	}
	return series
}

// SumOn totals the observations dated exactly day.
func SumOn(rows []Dated, day dates.Date) float64 {
	var total float64
	for _, row := range rows {
		if row.Date.Equal(day) {
			total += row.Value
		}
	}
	return total
}

func MillilitersToLiters(ml float64) float64 {
	return ml / 1000
}

func LitersToMilliliters(l float64) float64 {
	return l * 1000
}

// IsExpired reports whether deadline lies strictly before today.
// A deadline of today is not expired.
func IsExpired(deadline, today dates.Date) bool {
	return deadline.Before(today)
}
