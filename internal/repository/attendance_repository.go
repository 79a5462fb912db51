package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hadirly/hadirly-api/internal/models"
)

// AttendanceRepository manages persistence for attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

var attendanceSyncColumns = []syncColumn{
	{"studentId", "student_id"},
	{"date", "date"},
	{"status", "status"},
	{"createdAt", "created_at"},
	{"isDeleted", "is_deleted"},
	{"deletedAt", "deleted_at"},
}

// List returns non-deleted attendance records joined with student names,
// optionally scoped to a class and date window.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error) {
	base := `SELECT a.id, a.student_id, a.date, a.status, a.created_at, a.updated_at, a.is_deleted, a.deleted_at,
        s.name AS student_name
        FROM attendance_records a JOIN students s ON s.id = a.student_id`
	conditions := []string{"a.is_deleted = FALSE"}
	args := []interface{}{}

	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("s.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", len(args)+1))
		args = append(args, filter.From.UTC())
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", len(args)+1))
		args = append(args, filter.To.UTC())
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY a.date ASC, s.name ASC", base, strings.Join(conditions, " AND "))

	var records []models.AttendanceDetail
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// SyncUpsert applies a client-pushed create/update.
func (r *AttendanceRepository) SyncUpsert(ctx context.Context, id string, fields map[string]interface{}) error {
	return syncUpsert(ctx, r.db, "attendance_records", id, attendanceSyncColumns, fields)
}

// SyncMarkDeleted tombstones an attendance record pushed as deleted.
func (r *AttendanceRepository) SyncMarkDeleted(ctx context.Context, id string, deletedAt time.Time) error {
	return syncMarkDeleted(ctx, r.db, "attendance_records", id, deletedAt)
}

// ChangedSince returns every attendance record, tombstoned or not, written
// after the watermark.
func (r *AttendanceRepository) ChangedSince(ctx context.Context, since time.Time) ([]models.AttendanceRecord, error) {
	const query = `SELECT id, student_id, date, status, created_at, updated_at, is_deleted, deleted_at
        FROM attendance_records WHERE updated_at > $1 ORDER BY updated_at ASC`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, since.UTC()); err != nil {
		return nil, fmt.Errorf("attendance changed since: %w", err)
	}
	return records, nil
}
