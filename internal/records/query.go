package records

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// listStatement builds the owner scoped SELECT for a List call. dateColumn is
// the column the query filters and orders by.
func listStatement(table, columns, dateColumn string, q Query) (string, []any) {
	var sb strings.Builder
	args := []any{q.OwnerID}

	fmt.Fprintf(&sb, "SELECT %s FROM %s WHERE user_id = $1", columns, table)
	if q.Date != nil {
		args = append(args, q.Date.Time())
		fmt.Fprintf(&sb, " AND %s = $%d", dateColumn, len(args))
	}
	if q.From != nil {
		args = append(args, q.From.Time())
		fmt.Fprintf(&sb, " AND %s >= $%d", dateColumn, len(args))
	}
	if q.To != nil {
		args = append(args, q.To.Time())
		fmt.Fprintf(&sb, " AND %s <= $%d", dateColumn, len(args))
	}

	// created_at keeps rows sharing a date in insertion order
	fmt.Fprintf(&sb, " ORDER BY %s %s, created_at %s", dateColumn, q.Order.sql(), q.Order.sql())
	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	return sb.String(), args
}

func fromPgUUID(id pgtype.UUID) uuid.UUID {
	return uuid.UUID(id.Bytes)
}
