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

var _ Collection[Goal] = (*GoalRepo)(nil)

const goalColumns = "id, user_id, title, target_type, target_value, deadline, notes, created_at"

// GoalRepo filters and orders by deadline instead of date.
type GoalRepo struct {
	db *pgxpool.Pool
}

func NewGoalRepo(db *pgxpool.Pool) *GoalRepo {
	return &GoalRepo{
		db: db,
	}
}

func scanGoal(row pgx.CollectableRow) (Goal, error) {
	var (
		g          Goal
		id, userID pgtype.UUID
		targetType string
		deadline   time.Time
	)
	if err := row.Scan(&id, &userID, &g.Title, &targetType, &g.TargetValue, &deadline, &g.Notes, &g.CreatedAt); err != nil {
		return Goal{}, err
	}
	g.ID = fromPgUUID(id)
	g.UserID = fromPgUUID(userID)
	g.TargetType = TargetType(targetType)
	g.Deadline = dates.FromTime(deadline)
	return g, nil
}

func (r *GoalRepo) List(ctx context.Context, q Query) (_ []Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goal.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	stmt, args := listStatement("goal", goalColumns, "deadline", q)
	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}

	goals, err := pgx.CollectRows(rows, scanGoal)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows", len(goals)))

	return goals, nil
}

func (r *GoalRepo) Insert(ctx context.Context, g Goal) (_ *Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goal.insert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("target_type", string(g.TargetType)))

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO goal (user_id, title, target_type, target_value, deadline, notes)
			VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+goalColumns,
		g.UserID, g.Title, string(g.TargetType), g.TargetValue, g.Deadline.Time(), normalizeNotes(g.Notes),
	)
	if err != nil {
		return nil, storeError(err)
	}

	inserted, err := pgx.CollectExactlyOneRow(rows, scanGoal)
	if err != nil {
		return nil, storeError(err)
	}

	return &inserted, nil
}

func (r *GoalRepo) Update(ctx context.Context, owner, id uuid.UUID, g Goal) (_ *Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goal.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id.String()))

	rows, err := r.db.Query(
		ctx,
		`UPDATE goal
			SET title = $1, target_type = $2, target_value = $3, deadline = $4, notes = $5
			WHERE id = $6 AND user_id = $7
		RETURNING `+goalColumns,
		g.Title, string(g.TargetType), g.TargetValue, g.Deadline.Time(), normalizeNotes(g.Notes), id, owner,
	)
	if err != nil {
		return nil, storeError(err)
	}

	updated, err := pgx.CollectExactlyOneRow(rows, scanGoal)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError(err)
	}

	return &updated, nil
}

func (r *GoalRepo) Delete(ctx context.Context, owner, id uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goal.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id.String()))

	return deleteOwned(ctx, r.db, "goal", owner, id)
}
