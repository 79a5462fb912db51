package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// syncColumn maps a client payload key onto its storage column. Every entity
// repository declares a closed whitelist; payload keys outside it are ignored
// so a client cannot write arbitrary columns.
type syncColumn struct {
	payloadKey string
	column     string
}

// syncUpsert applies a client change as an insert-or-replace keyed on id.
// Only whitelisted columns present in the payload are written. The store
// stamps updated_at itself on every write; created_at is honoured on first
// insert only and defaults to the server clock.
func syncUpsert(ctx context.Context, db *sqlx.DB, table, id string, columns []syncColumn, fields map[string]interface{}) error {
	now := time.Now().UTC()

	insertCols := []string{"id"}
	args := []interface{}{id}
	updates := make([]string, 0, len(columns)+1)
	hasCreatedAt := false

	for _, col := range columns {
		value, ok := fields[col.payloadKey]
		if !ok {
			continue
		}
		insertCols = append(insertCols, col.column)
		args = append(args, value)
		if col.column == "created_at" {
			hasCreatedAt = true
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col.column, col.column))
	}

	if !hasCreatedAt {
		insertCols = append(insertCols, "created_at")
		args = append(args, now)
	}
	insertCols = append(insertCols, "updated_at")
	args = append(args, now)
	updates = append(updates, "updated_at = EXCLUDED.updated_at")

	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s",
		table,
		strings.Join(insertCols, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sync upsert %s: %w", table, err)
	}
	return nil
}

// syncMarkDeleted flips the tombstone on a row. Matching zero rows is not an
// error: deleting an already-absent record is idempotent.
func syncMarkDeleted(ctx context.Context, db *sqlx.DB, table, id string, deletedAt time.Time) error {
	query := fmt.Sprintf("UPDATE %s SET is_deleted = TRUE, deleted_at = $2, updated_at = $3 WHERE id = $1", table)
	if _, err := db.ExecContext(ctx, query, id, deletedAt.UTC(), time.Now().UTC()); err != nil {
		return fmt.Errorf("sync mark deleted %s: %w", table, err)
	}
	return nil
}
