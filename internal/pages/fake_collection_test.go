package pages

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/2beens/fittrack/internal/dates"
	"github.com/2beens/fittrack/internal/records"
)

// fakeCollection is an in-memory records.Collection.
type fakeCollection[T records.Record[T]] struct {
	date   func(T) dates.Date
	owner  func(T) uuid.UUID
	withID func(T, uuid.UUID) T

	mu        sync.Mutex
	rows      []T
	listCalls int
	inserts   int
	updates   int
	deletes   int

	listErr   error
	insertErr error
	updateErr error
	deleteErr error

	// afterSnapshot runs inside List after the rows are copied, with the
	// 1-based call number
	afterSnapshot func(call int)
}

func (f *fakeCollection[T]) add(rows ...T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range rows {
		if row.Key() == uuid.Nil {
			row = f.withID(row, uuid.New())
		}
		f.rows = append(f.rows, row)
	}
}

func (f *fakeCollection[T]) all() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.rows)
}

func (f *fakeCollection[T]) List(_ context.Context, q records.Query) ([]T, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	listErr := f.listErr
	var out []T
	for _, row := range f.rows {
		if f.owner(row) != q.OwnerID {
			continue
		}
		d := f.date(row)
		if q.Date != nil && !d.Equal(*q.Date) {
			continue
		}
		if q.From != nil && d.Before(*q.From) {
			continue
		}
		if q.To != nil && d.After(*q.To) {
			continue
		}
		out = append(out, row)
	}
	hook := f.afterSnapshot
	f.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	if listErr != nil {
		return nil, listErr
	}

	slices.SortStableFunc(out, func(a, b T) int {
		if q.Order == records.OrderDateDesc {
			return f.date(b).Compare(f.date(a))
		}
		return f.date(a).Compare(f.date(b))
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeCollection[T]) Insert(_ context.Context, record T) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	record = f.withID(record, uuid.New())
	f.rows = append(f.rows, record)
	return &record, nil
}

func (f *fakeCollection[T]) Update(_ context.Context, owner, id uuid.UUID, record T) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i, row := range f.rows {
		if row.Key() == id && f.owner(row) == owner {
			updated := f.withID(record.WithOwner(owner), id)
			f.rows[i] = updated
			return &updated, nil
		}
	}
	return nil, records.ErrNotFound
}

func (f *fakeCollection[T]) Delete(_ context.Context, owner, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, row := range f.rows {
		if row.Key() == id && f.owner(row) == owner {
			f.rows = slices.Delete(f.rows, i, i+1)
			return nil
		}
	}
	return records.ErrNotFound
}

func newFakeWorkouts() *fakeCollection[records.Workout] {
	return &fakeCollection[records.Workout]{
		date:  func(w records.Workout) dates.Date { return w.Date },
		owner: func(w records.Workout) uuid.UUID { return w.UserID },
		withID: func(w records.Workout, id uuid.UUID) records.Workout {
			w.ID = id
			if w.CreatedAt.IsZero() {
				w.CreatedAt = time.Now()
			}
			return w
		},
	}
}

func newFakeWeights() *fakeCollection[records.BodyWeight] {
	return &fakeCollection[records.BodyWeight]{
		date:  func(b records.BodyWeight) dates.Date { return b.Date },
		owner: func(b records.BodyWeight) uuid.UUID { return b.UserID },
		withID: func(b records.BodyWeight, id uuid.UUID) records.BodyWeight {
			b.ID = id
			return b
		},
	}
}

func newFakeWater() *fakeCollection[records.WaterIntake] {
	return &fakeCollection[records.WaterIntake]{
		date:  func(w records.WaterIntake) dates.Date { return w.Date },
		owner: func(w records.WaterIntake) uuid.UUID { return w.UserID },
		withID: func(w records.WaterIntake, id uuid.UUID) records.WaterIntake {
			w.ID = id
			return w
		},
	}
}

func newFakeSleep() *fakeCollection[records.SleepEntry] {
	return &fakeCollection[records.SleepEntry]{
		date:  func(s records.SleepEntry) dates.Date { return s.Date },
		owner: func(s records.SleepEntry) uuid.UUID { return s.UserID },
		withID: func(s records.SleepEntry, id uuid.UUID) records.SleepEntry {
			s.ID = id
			return s
		},
	}
}

func newFakeGoals() *fakeCollection[records.Goal] {
	return &fakeCollection[records.Goal]{
		date:  func(g records.Goal) dates.Date { return g.Deadline },
		owner: func(g records.Goal) uuid.UUID { return g.UserID },
		withID: func(g records.Goal, id uuid.UUID) records.Goal {
			g.ID = id
			return g
		},
	}
}

type fakeStores struct {
	workouts *fakeCollection[records.Workout]
	weights  *fakeCollection[records.BodyWeight]
	water    *fakeCollection[records.WaterIntake]
	sleep    *fakeCollection[records.SleepEntry]
	goals    *fakeCollection[records.Goal]
}

func newFakeStores() *fakeStores {
	return &fakeStores{
		workouts: newFakeWorkouts(),
		weights:  newFakeWeights(),
		water:    newFakeWater(),
		sleep:    newFakeSleep(),
		goals:    newFakeGoals(),
	}
}

func (f *fakeStores) stores() Stores {
	return Stores{
		Workouts: f.workouts,
		Weights:  f.weights,
		Water:    f.water,
		Sleep:    f.sleep,
		Goals:    f.goals,
	}
}
