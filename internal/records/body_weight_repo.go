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

var _ Collection[BodyWeight] = (*BodyWeightRepo)(nil)

const bodyWeightColumns = "id, user_id, date, weight, created_at"

type BodyWeightRepo struct {
	db *pgxpool.Pool
}

func NewBodyWeightRepo(db *pgxpool.Pool) *BodyWeightRepo {
	return &BodyWeightRepo{
		db: db,
	}
}

func scanBodyWeight(row pgx.CollectableRow) (BodyWeight, error) {
	var (
		b          BodyWeight
		id, userID pgtype.UUID
		date       time.Time
	)
	if err := row.Scan(&id, &userID, &date, &b.Weight, &b.CreatedAt); err != nil {
		return BodyWeight{}, err
	}
	b.ID = fromPgUUID(id)
	b.UserID = fromPgUUID(userID)
	b.Date = dates.FromTime(date)
	return b, nil
}

func (r *BodyWeightRepo) List(ctx context.Context, q Query) (_ []BodyWeight, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.body-weight.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	stmt, args := listStatement("body_weight", bodyWeightColumns, "date", q)
	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}

	weights, err := pgx.CollectRows(rows, scanBodyWeight)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows", len(weights)))

	return weights, nil
}

func (r *BodyWeightRepo) Insert(ctx context.Context, b BodyWeight) (_ *BodyWeight, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.body-weight.insert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO body_weight (user_id, date, weight) VALUES ($1, $2, $3) RETURNING `+bodyWeightColumns,
		b.UserID, b.Date.Time(), b.Weight,
	)
	if err != nil {
		return nil, storeError(err)
	}

	inserted, err := pgx.CollectExactlyOneRow(rows, scanBodyWeight)
	if err != nil {
		return nil, storeError(err)
	}

	return &inserted, nil
}

func (r *BodyWeightRepo) Update(ctx context.Context, owner, id uuid.UUID, b BodyWeight) (_ *BodyWeight, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.body-weight.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id.String()))

	rows, err := r.db.Query(
		ctx,
		`UPDATE body_weight SET date = $1, weight = $2 WHERE id = $3 AND user_id = $4 RETURNING `+bodyWeightColumns,
		b.Date.Time(), b.Weight, id, owner,
	)
	if err != nil {
		return nil, storeError(err)
	}

	updated, err := pgx.CollectExactlyOneRow(rows, scanBodyWeight)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError(err)
	}

	return &updated, nil
}

func (r *BodyWeightRepo) Delete(ctx context.Context, owner, id uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.body-weight.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id.String()))

	return deleteOwned(ctx, r.db, "body_weight", owner, id)
}
