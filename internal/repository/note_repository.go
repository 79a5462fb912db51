package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hadirly/hadirly-api/internal/models"
)

// NoteRepository manages persistence for student notes.
type NoteRepository struct {
	db *sqlx.DB
}

// NewNoteRepository constructs a NoteRepository.
func NewNoteRepository(db *sqlx.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

var noteSyncColumns = []syncColumn{
	{"studentId", "student_id"},
	{"content", "content"},
	{"createdAt", "created_at"},
	{"isDeleted", "is_deleted"},
	{"deletedAt", "deleted_at"},
}

// ListByStudent returns a student's non-deleted notes, newest first.
func (r *NoteRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Note, error) {
	const query = `SELECT id, student_id, content, created_at, updated_at, is_deleted, deleted_at
        FROM notes WHERE student_id = $1 AND is_deleted = FALSE ORDER BY created_at DESC`
	var notes []models.Note
	if err := r.db.SelectContext(ctx, &notes, query, studentID); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// SyncUpsert applies a client-pushed create/update.
func (r *NoteRepository) SyncUpsert(ctx context.Context, id string, fields map[string]interface{}) error {
	return syncUpsert(ctx, r.db, "notes", id, noteSyncColumns, fields)
}

// SyncMarkDeleted tombstones a note pushed as deleted.
func (r *NoteRepository) SyncMarkDeleted(ctx context.Context, id string, deletedAt time.Time) error {
	return syncMarkDeleted(ctx, r.db, "notes", id, deletedAt)
}

// ChangedSince returns every note, tombstoned or not, written after the watermark.
func (r *NoteRepository) ChangedSince(ctx context.Context, since time.Time) ([]models.Note, error) {
	const query = `SELECT id, student_id, content, created_at, updated_at, is_deleted, deleted_at
        FROM notes WHERE updated_at > $1 ORDER BY updated_at ASC`
	var notes []models.Note
	if err := r.db.SelectContext(ctx, &notes, query, since.UTC()); err != nil {
		return nil, fmt.Errorf("notes changed since: %w", err)
	}
	return notes, nil
}
