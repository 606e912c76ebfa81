package records

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fittrack/internal/dates"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
)

var _ Collection[Workout] = (*WorkoutRepo)(nil)

const workoutColumns = "id, user_id, date, exercise_name, sets, reps, weight, duration, notes, created_at"

type WorkoutRepo struct {
	db *pgxpool.Pool
}

func NewWorkoutRepo(db *pgxpool.Pool) *WorkoutRepo {
	return &WorkoutRepo{
		db: db,
	}
}

func scanWorkout(row pgx.CollectableRow) (Workout, error) {
	var (
		w          Workout
		id, userID pgtype.UUID
		date       time.Time
	)
	if err := row.Scan(
		&id, &userID, &date, &w.ExerciseName, &w.Sets, &w.Reps, &w.Weight, &w.Duration, &w.Notes, &w.CreatedAt,
	); err != nil {
		return Workout{}, err
	}
	w.ID = fromPgUUID(id)
	w.UserID = fromPgUUID(userID)
	w.Date = dates.FromTime(date)
	return w, nil
}

func (r *WorkoutRepo) List(ctx context.Context, q Query) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	stmt, args := listStatement("workout", workoutColumns, "date", q)
	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}

	workouts, err := pgx.CollectRows(rows, scanWorkout)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows", len(workouts)))

	return workouts, nil
}

func (r *WorkoutRepo) Insert(ctx context.Context, w Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.insert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO workout (user_id, date, exercise_name, sets, reps, weight, duration, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+workoutColumns,
		w.UserID, w.Date.Time(), w.ExerciseName, w.Sets, w.Reps, w.Weight, w.Duration, normalizeNotes(w.Notes),
	)
	if err != nil {
		return nil, storeError(err)
	}

	inserted, err := pgx.CollectExactlyOneRow(rows, scanWorkout)
	if err != nil {
		return nil, storeError(err)
	}
	span.SetAttributes(attribute.String("workout.id", inserted.ID.String()))

	return &inserted, nil
}

func (r *WorkoutRepo) Update(ctx context.Context, owner, id uuid.UUID, w Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id.String()))

	rows, err := r.db.Query(
		ctx,
		`UPDATE workout
			SET date = $1, exercise_name = $2, sets = $3, reps = $4, weight = $5, duration = $6, notes = $7
			WHERE id = $8 AND user_id = $9
		RETURNING `+workoutColumns,
		w.Date.Time(), w.ExerciseName, w.Sets, w.Reps, w.Weight, w.Duration, normalizeNotes(w.Notes), id, owner,
	)
	if err != nil {
		return nil, storeError(err)
	}

	updated, err := pgx.CollectExactlyOneRow(rows, scanWorkout)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError(err)
	}

	return &updated, nil
}

func (r *WorkoutRepo) Delete(ctx context.Context, owner, id uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id.String()))

	return deleteOwned(ctx, r.db, "workout", owner, id)
}
