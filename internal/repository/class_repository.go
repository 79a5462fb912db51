package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hadirly/hadirly-api/internal/models"
)

// ClassRepository manages persistence for classroom records.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

var classSyncColumns = []syncColumn{
	{"name", "name"},
	{"description", "description"},
	{"createdAt", "created_at"},
	{"isDeleted", "is_deleted"},
	{"deletedAt", "deleted_at"},
}

// List returns all non-deleted classes ordered by name.
func (r *ClassRepository) List(ctx context.Context) ([]models.Class, error) {
	const query = `SELECT id, name, description, created_at, updated_at, is_deleted, deleted_at
        FROM classes WHERE is_deleted = FALSE ORDER BY name ASC`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByID fetches a class by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	const query = `SELECT id, name, description, created_at, updated_at, is_deleted, deleted_at
        FROM classes WHERE id = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// Create inserts a new class record.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if class.CreatedAt.IsZero() {
		class.CreatedAt = now
	}
	class.UpdatedAt = now
	const query = `INSERT INTO classes (id, name, description, created_at, updated_at, is_deleted)
        VALUES (:id, :name, :description, :created_at, :updated_at, FALSE)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// AssignManager links a user to a class as its manager.
func (r *ClassRepository) AssignManager(ctx context.Context, classID, userID string) error {
	const query = `INSERT INTO class_managers (class_id, user_id, assigned_at)
        VALUES ($1, $2, $3) ON CONFLICT (class_id, user_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, classID, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("assign class manager: %w", err)
	}
	return nil
}

// RemoveManager unlinks a manager from a class.
func (r *ClassRepository) RemoveManager(ctx context.Context, classID, userID string) error {
	const query = `DELETE FROM class_managers WHERE class_id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, classID, userID); err != nil {
		return fmt.Errorf("remove class manager: %w", err)
	}
	return nil
}

// Managers lists the users managing a class.
func (r *ClassRepository) Managers(ctx context.Context, classID string) ([]models.User, error) {
	const query = `SELECT u.id, u.email, u.full_name, u.role, u.created_at, u.updated_at, u.is_deleted, u.deleted_at
        FROM users u JOIN class_managers cm ON cm.user_id = u.id
        WHERE cm.class_id = $1 AND u.is_deleted = FALSE ORDER BY u.full_name ASC`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, classID); err != nil {
		return nil, fmt.Errorf("list class managers: %w", err)
	}
	return users, nil
}

// SyncUpsert applies a client-pushed create/update.
func (r *ClassRepository) SyncUpsert(ctx context.Context, id string, fields map[string]interface{}) error {
	return syncUpsert(ctx, r.db, "classes", id, classSyncColumns, fields)
}

// SyncMarkDeleted tombstones a class pushed as deleted.
func (r *ClassRepository) SyncMarkDeleted(ctx context.Context, id string, deletedAt time.Time) error {
	return syncMarkDeleted(ctx, r.db, "classes", id, deletedAt)
}

// ChangedSince returns every class, tombstoned or not, written after the watermark.
func (r *ClassRepository) ChangedSince(ctx context.Context, since time.Time) ([]models.Class, error) {
	const query = `SELECT id, name, description, created_at, updated_at, is_deleted, deleted_at
        FROM classes WHERE updated_at > $1 ORDER BY updated_at ASC`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, since.UTC()); err != nil {
		return nil, fmt.Errorf("classes changed since: %w", err)
	}
	return classes, nil
}
