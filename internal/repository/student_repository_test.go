package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadirly/hadirly-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func studentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "phone", "class_id", "address", "birthdate", "created_at", "updated_at", "is_deleted", "deleted_at"})
}

func TestStudentRepositoryListExcludesDeleted(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, phone, class_id, address, birthdate, created_at, updated_at, is_deleted, deleted_at FROM students WHERE is_deleted = FALSE ORDER BY name ASC")).
		WillReturnRows(studentRows().AddRow("s-1", "Siti", nil, "c-1", nil, nil, time.Now(), time.Now(), false, nil))

	students, err := repo.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, "Siti", students[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListFiltersByClass(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, phone, class_id, address, birthdate, created_at, updated_at, is_deleted, deleted_at FROM students WHERE is_deleted = FALSE AND class_id = $1 ORDER BY name ASC")).
		WithArgs("c-1").
		WillReturnRows(studentRows())

	_, err := repo.List(context.Background(), models.StudentFilter{ClassID: "c-1"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositorySyncUpsertWritesWhitelistedColumns(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students (id, name, class_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, class_id = EXCLUDED.class_id, updated_at = EXCLUDED.updated_at")).
		WithArgs("s-1", "Siti", "c-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SyncUpsert(context.Background(), "s-1", map[string]interface{}{
		"name":    "Siti",
		"classId": "c-1",
		"role":    "ignored",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositorySyncUpsertHonoursClientCreatedAt(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	createdAt := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at")).
		WithArgs("s-1", "Siti", createdAt, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SyncUpsert(context.Background(), "s-1", map[string]interface{}{
		"name":      "Siti",
		"createdAt": createdAt,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositorySyncMarkDeleted(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	deletedAt := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET is_deleted = TRUE, deleted_at = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("s-1", deletedAt, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SyncMarkDeleted(context.Background(), "s-1", deletedAt)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositorySyncMarkDeletedAbsentRowIsNoError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("UPDATE students SET is_deleted").
		WithArgs("gone", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SyncMarkDeleted(context.Background(), "gone", time.Now().UTC())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryChangedSince(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	since := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	deletedAt := since.Add(time.Hour)
	mock.ExpectQuery("FROM students WHERE updated_at > \\$1 ORDER BY updated_at ASC").
		WithArgs(since).
		WillReturnRows(studentRows().
			AddRow("s-1", "Siti", nil, "c-1", nil, nil, since, since.Add(time.Hour), false, nil).
			AddRow("s-2", "Budi", nil, "c-1", nil, nil, since, deletedAt, true, deletedAt))

	students, err := repo.ChangedSince(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.False(t, students[0].IsDeleted)
	assert.True(t, students[1].IsDeleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateGeneratesID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	student := &models.Student{Name: "Siti", ClassID: "c-1"}
	err := repo.Create(context.Background(), student)
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.False(t, student.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
