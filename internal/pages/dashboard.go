package pages

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/fittrack/internal/aggregate"
	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/dates"
	"github.com/2beens/fittrack/internal/records"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
)

const dashboardRecentRows = 10

// Stores bundles the entity collections.
type Stores struct {
	Workouts records.Collection[records.Workout]
	Weights  records.Collection[records.BodyWeight]
	Water    records.Collection[records.WaterIntake]
	Sleep    records.Collection[records.SleepEntry]
	Goals    records.Collection[records.Goal]
}

type DashboardStats struct {
	LatestWeight float64 `json:"latest_weight"`
	LastSleep    float64 `json:"last_sleep"`
	// TodayWaterML is the sum of today's intakes
	TodayWaterML float64 `json:"today_water_ml"`
	WorkoutToday bool    `json:"workout_today"`
}

type DashboardView struct {
	Page     string      `json:"page"`
	Identity bool        `json:"identity"`
	Loading  bool        `json:"loading"`
	Today    string      `json:"today"`
	Cards    []StatsCard `json:"cards,omitempty"`
	Charts   []Chart     `json:"charts,omitempty"`
	Notice   *Notice     `json:"notice,omitempty"`
}

type dashboardData struct {
	weights       []records.BodyWeight
	sleep         []records.SleepEntry
	water         []records.WaterIntake
	workoutToday  bool
	workoutsWeek  []records.Workout
	loadedForDate dates.Date
}

// Dashboard summarizes the latest records of every entity.
type Dashboard struct {
	stores  Stores
	session *auth.Session
	clock   Clock

	generation atomic.Uint64

	mu       sync.Mutex
	identity *auth.Identity
	loading  bool
	data     *dashboardData
	notice   *Notice
	loadErr  error
}

func NewDashboard(stores Stores, session *auth.Session, clock Clock) *Dashboard {
	return &Dashboard{
		stores:  stores,
		session: session,
		clock:   clock,
	}
}

func (d *Dashboard) Mount(ctx context.Context) (unmount func()) {
	return d.session.Subscribe(ctx, d.onIdentity)
}

func (d *Dashboard) onIdentity(ctx context.Context, identity *auth.Identity) {
	if identity == nil {
		d.generation.Add(1)
		d.mu.Lock()
		d.identity = nil
		d.loading = false
		d.data = nil
		d.loadErr = nil
		d.mu.Unlock()
		return
	}

	d.mu.Lock()
	d.identity = identity
	d.mu.Unlock()

	if err := d.Load(ctx); err != nil {
		log.Errorf("dashboard: load on identity change: %s", err)
	}
}

func (d *Dashboard) Load(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pages.dashboard.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	d.mu.Lock()
	identity := d.identity
	if identity == nil {
		d.mu.Unlock()
		return ErrNoIdentity
	}
	gen := d.generation.Add(1)
	d.loading = true
	d.mu.Unlock()

	data, err := d.fetch(ctx, identity, d.clock.Today())

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.generation.Load() {
		return nil
	}

	d.loading = false
	if err != nil {
		d.loadErr = err
		d.notice = errorNotice("Failed to load dashboard data")
		return fmt.Errorf("load dashboard: %w", err)
	}
	d.loadErr = nil
	d.data = data
	return nil
}

func (d *Dashboard) LoadErr() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loadErr
}

func (d *Dashboard) fetch(ctx context.Context, identity *auth.Identity, today dates.Date) (*dashboardData, error) {
	owner := identity.UserID
	recent := records.Query{OwnerID: owner, Order: records.OrderDateDesc, Limit: dashboardRecentRows}

	weights, err := d.stores.Weights.List(ctx, recent)
	if err != nil {
		return nil, fmt.Errorf("weights: %w", err)
	}
	sleep, err := d.stores.Sleep.List(ctx, recent)
	if err != nil {
		return nil, fmt.Errorf("sleep: %w", err)
	}
	water, err := d.stores.Water.List(ctx, recent)
	if err != nil {
		return nil, fmt.Errorf("water: %w", err)
	}
	workoutsToday, err := d.stores.Workouts.List(ctx, records.Query{OwnerID: owner, Date: &today, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("workouts today: %w", err)
	}
	weekStart := today.AddDays(-(aggregate.WindowDays - 1))
	workoutsWeek, err := d.stores.Workouts.List(ctx, records.Query{
		OwnerID: owner,
		From:    &weekStart,
		To:      &today,
		Order:   records.OrderDateAsc,
	})
	if err != nil {
		return nil, fmt.Errorf("workouts week: %w", err)
	}

	return &dashboardData{
		weights:       weights,
		sleep:         sleep,
		water:         water,
		workoutToday:  len(workoutsToday) > 0,
		workoutsWeek:  workoutsWeek,
		loadedForDate: today,
	}, nil
}

func (d *Dashboard) Stats() DashboardStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.data == nil {
		return DashboardStats{}
	}
	return d.data.stats()
}

// rows are ordered most recent first
func (data *dashboardData) stats() DashboardStats {
	var stats DashboardStats
	if len(data.weights) > 0 {
		stats.LatestWeight = data.weights[0].Weight
	}
	if len(data.sleep) > 0 {
		stats.LastSleep = data.sleep[0].DurationHr
	}
	stats.TodayWaterML = aggregate.SumOn(aggregate.Project(data.water, waterPoint), data.loadedForDate)
	stats.WorkoutToday = data.workoutToday
	return stats
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func statsCards(stats DashboardStats) []StatsCard {
	notRecorded := "Not recorded"

	weight := notRecorded
	if stats.LatestWeight > 0 {
		weight = formatNumber(stats.LatestWeight) + " kg"
	}
	sleep := notRecorded
	if stats.LastSleep > 0 {
		sleep = formatNumber(stats.LastSleep) + " hrs"
	}
	water := notRecorded
	if stats.TodayWaterML > 0 {
		water = formatNumber(aggregate.MillilitersToLiters(stats.TodayWaterML)) + " L"
	}
	workout := "Not yet"
	if stats.WorkoutToday {
		workout = "Completed"
	}

	return []StatsCard{
		{Title: "Latest Weight", Value: weight, Link: "/weight"},
		{Title: "Last Sleep", Value: sleep, Link: "/sleep"},
		{Title: "Today's Water", Value: water, Link: "/water"},
		{Title: "Workout Today", Value: workout, Link: "/workouts"},
	}
}

func (data *dashboardData) charts() []Chart {
	weights := aggregate.Chronological(aggregate.Project(data.weights, weightPoint))
	water := aggregate.DailyTotals(aggregate.Project(data.water, waterPoint), aggregate.WindowDays).
		Map(aggregate.MillilitersToLiters)
	sleep := aggregate.Chronological(aggregate.Project(data.sleep, sleepPoint))

	workoutDays := make([]dates.Date, len(data.workoutsWeek))
	for i, w := range data.workoutsWeek {
		workoutDays[i] = w.Date
	}
	// always seven points, so this chart is never empty
	frequency := aggregate.WeeklyFrequency(workoutDays, data.loadedForDate)

	return []Chart{
		newChart("Weight History", ChartLine, "Weight (kg)", weights, "No weight data recorded yet."),
		newChart("Water Intake", ChartLine, "Water (L)", water, "No water intake recorded yet."),
		newChart("Sleep Duration", ChartLine, "Hours", sleep, "No sleep data recorded yet."),
		newChart("Workout Frequency", ChartBar, "Workouts", frequency, "No workout data recorded yet."),
	}
}

func (d *Dashboard) View() DashboardView {
	d.mu.Lock()
	defer d.mu.Unlock()

	view := DashboardView{
		Page:     "dashboard",
		Identity: d.identity != nil,
		Loading:  d.loading,
		Today:    d.clock.Today().LongLabel(),
		Notice:   d.notice,
	}
	if d.identity == nil || d.data == nil {
		return view
	}

	view.Cards = statsCards(d.data.stats())
	view.Charts = d.data.charts()
	return view
}
