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

var _ Collection[SleepEntry] = (*SleepEntryRepo)(nil)

const sleepEntryColumns = "id, user_id, date, duration_hr, notes, created_at"

type SleepEntryRepo struct {
	db *pgxpool.Pool
}

func NewSleepEntryRepo(db *pgxpool.Pool) *SleepEntryRepo {
	return &SleepEntryRepo{
		db: db,
	}
}

func scanSleepEntry(row pgx.CollectableRow) (SleepEntry, error) {
	var (
		s          SleepEntry
		id, userID pgtype.UUID
		date       time.Time
	)
	if err := row.Scan(&id, &userID, &date, &s.DurationHr, &s.Notes, &s.CreatedAt); err != nil {
		return SleepEntry{}, err
	}
	s.ID = fromPgUUID(id)
	s.UserID = fromPgUUID(userID)
	s.Date = dates.FromTime(date)
	return s, nil
}

func (r *SleepEntryRepo) List(ctx context.Context, q Query) (_ []SleepEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sleep.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	stmt, args := listStatement("sleep_entry", sleepEntryColumns, "date", q)
	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}

	entries, err := pgx.CollectRows(rows, scanSleepEntry)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows", len(entries)))

	return entries, nil
}

func (r *SleepEntryRepo) Insert(ctx context.Context, s SleepEntry) (_ *SleepEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sleep.insert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO sleep_entry (user_id, date, duration_hr, notes) VALUES ($1, $2, $3, $4) RETURNING `+sleepEntryColumns,
		s.UserID, s.Date.Time(), s.DurationHr, normalizeNotes(s.Notes),
	)
	if err != nil {
		return nil, storeError(err)
	}

	inserted, err := pgx.CollectExactlyOneRow(rows, scanSleepEntry)
	if err != nil {
		return nil, storeError(err)
	}

	return &inserted, nil
}

func (r *SleepEntryRepo) Update(ctx context.Context, owner, id uuid.UUID, s SleepEntry) (_ *SleepEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sleep.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id.String()))

	rows, err := r.db.Query(
		ctx,
		`UPDATE sleep_entry SET date = $1, duration_hr = $2, notes = $3 WHERE id = $4 AND user_id = $5 RETURNING `+sleepEntryColumns,
		s.Date.Time(), s.DurationHr, normalizeNotes(s.Notes), id, owner,
	)
	if err != nil {
		return nil, storeError(err)
	}

	updated, err := pgx.CollectExactlyOneRow(rows, scanSleepEntry)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError(err)
	}

	return &updated, nil
}

func (r *SleepEntryRepo) Delete(ctx context.Context, owner, id uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sleep.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id.String()))

	return deleteOwned(ctx, r.db, "sleep_entry", owner, id)
}
