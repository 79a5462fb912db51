package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hadirly/hadirly-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

var studentSyncColumns = []syncColumn{
	{"name", "name"},
	{"phone", "phone"},
	{"classId", "class_id"},
	{"address", "address"},
	{"birthdate", "birthdate"},
	{"createdAt", "created_at"},
	{"isDeleted", "is_deleted"},
	{"deletedAt", "deleted_at"},
}

// List returns students matching the provided filters, name-ordered.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	base := `SELECT id, name, phone, class_id, address, birthdate, created_at, updated_at, is_deleted, deleted_at FROM students`
	conditions := []string{}
	args := []interface{}{}

	if !filter.IncludeDeleted {
		conditions = append(conditions, "is_deleted = FALSE")
	}
	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if len(conditions) > 0 {
		base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))
	}
	base += " ORDER BY name ASC"

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, base, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by ID, tombstoned or not.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, name, phone, class_id, address, birthdate, created_at, updated_at, is_deleted, deleted_at
        FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, name, phone, class_id, address, birthdate, created_at, updated_at, is_deleted)
        VALUES (:id, :name, :phone, :class_id, :address, :birthdate, :created_at, :updated_at, FALSE)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET name = :name, phone = :phone, class_id = :class_id, address = :address,
        birthdate = :birthdate, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// SoftDelete tombstones a student through the REST path.
func (r *StudentRepository) SoftDelete(ctx context.Context, id string) error {
	return syncMarkDeleted(ctx, r.db, "students", id, time.Now().UTC())
}

// SyncUpsert applies a client-pushed create/update.
func (r *StudentRepository) SyncUpsert(ctx context.Context, id string, fields map[string]interface{}) error {
	return syncUpsert(ctx, r.db, "students", id, studentSyncColumns, fields)
}

// SyncMarkDeleted tombstones a student pushed as deleted.
func (r *StudentRepository) SyncMarkDeleted(ctx context.Context, id string, deletedAt time.Time) error {
	return syncMarkDeleted(ctx, r.db, "students", id, deletedAt)
}

// ChangedSince returns every student, tombstoned or not, written after the watermark.
func (r *StudentRepository) ChangedSince(ctx context.Context, since time.Time) ([]models.Student, error) {
	const query = `SELECT id, name, phone, class_id, address, birthdate, created_at, updated_at, is_deleted, deleted_at
        FROM students WHERE updated_at > $1 ORDER BY updated_at ASC`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, since.UTC()); err != nil {
		return nil, fmt.Errorf("students changed since: %w", err)
	}
	return students, nil
}
