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

var _ Collection[WaterIntake] = (*WaterIntakeRepo)(nil)

const waterIntakeColumns = "id, user_id, date, amount_ml, created_at"

type WaterIntakeRepo struct {
	db *pgxpool.Pool
}

func NewWaterIntakeRepo(db *pgxpool.Pool) *WaterIntakeRepo {
	return &WaterIntakeRepo{
		db: db,
	}
}

func scanWaterIntake(row pgx.CollectableRow) (WaterIntake, error) {
	var (
		w          WaterIntake
		id, userID pgtype.UUID
		date       time.Time
	)
	if err := row.Scan(&id, &userID, &date, &w.AmountML, &w.CreatedAt); err != nil {
		return WaterIntake{}, err
	}
	w.ID = fromPgUUID(id)
	w.UserID = fromPgUUID(userID)
	w.Date = dates.FromTime(date)
	return w, nil
}

func (r *WaterIntakeRepo) List(ctx context.Context, q Query) (_ []WaterIntake, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.water-intake.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	stmt, args := listStatement("water_intake", waterIntakeColumns, "date", q)
	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}

	intakes, err := pgx.CollectRows(rows, scanWaterIntake)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows", len(intakes)))

	return intakes, nil
}

func (r *WaterIntakeRepo) Insert(ctx context.Context, w WaterIntake) (_ *WaterIntake, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.water-intake.insert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("amount_ml", w.AmountML))

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO water_intake (user_id, date, amount_ml) VALUES ($1, $2, $3) RETURNING `+waterIntakeColumns,
		w.UserID, w.Date.Time(), w.AmountML,
	)
	if err != nil {
		return nil, storeError(err)
	}

	inserted, err := pgx.CollectExactlyOneRow(rows, scanWaterIntake)
	if err != nil {
		return nil, storeError(err)
	}

	return &inserted, nil
}

func (r *WaterIntakeRepo) Update(ctx context.Context, owner, id uuid.UUID, w WaterIntake) (_ *WaterIntake, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.water-intake.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id.String()))

	rows, err := r.db.Query(
		ctx,
		`UPDATE water_intake SET date = $1, amount_ml = $2 WHERE id = $3 AND user_id = $4 RETURNING `+waterIntakeColumns,
		w.Date.Time(), w.AmountML, id, owner,
	)
	if err != nil {
		return nil, storeError(err)
	}

	updated, err := pgx.CollectExactlyOneRow(rows, scanWaterIntake)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError(err)
	}

	return &updated, nil
}

func (r *WaterIntakeRepo) Delete(ctx context.Context, owner, id uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.water-intake.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id.String()))

	return deleteOwned(ctx, r.db, "water_intake", owner, id)
}
