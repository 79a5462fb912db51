package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadirly/hadirly-api/internal/models"
	appErrors "github.com/hadirly/hadirly-api/pkg/errors"
)

type fakeStudentRepo struct {
	byID    map[string]*models.Student
	created []*models.Student
	updated []*models.Student
	deleted []string
}

func (f *fakeStudentRepo) List(context.Context, models.StudentFilter) ([]models.Student, error) {
	return nil, nil
}

func (f *fakeStudentRepo) FindByID(_ context.Context, id string) (*models.Student, error) {
	if student, ok := f.byID[id]; ok {
		copied := *student
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentRepo) Create(_ context.Context, student *models.Student) error {
	f.created = append(f.created, student)
	return nil
}

func (f *fakeStudentRepo) Update(_ context.Context, student *models.Student) error {
	f.updated = append(f.updated, student)
	return nil
}

func (f *fakeStudentRepo) SoftDelete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestStudentServiceCreateKeepsClientID(t *testing.T) {
	repo := &fakeStudentRepo{}
	notifier := &fakeNotifier{}
	svc := NewStudentService(repo, notifier, nil, nil)

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		ID:      "offline-uuid-1",
		Name:    "Siti",
		ClassID: "c-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "offline-uuid-1", student.ID)
	assert.Equal(t, []string{"STUDENT:CREATE"}, notifier.events)
}

func TestStudentServiceCreateValidation(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateStudentRequest{Name: "Siti"})

	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestStudentServiceGetHidesTombstonedRows(t *testing.T) {
	repo := &fakeStudentRepo{byID: map[string]*models.Student{
		"s-1": {ID: "s-1", Name: "Siti", ClassID: "c-1", IsDeleted: true},
	}}
	svc := NewStudentService(repo, nil, nil, nil)

	_, err := svc.Get(context.Background(), "s-1")

	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestStudentServiceDeleteIsSoft(t *testing.T) {
	repo := &fakeStudentRepo{byID: map[string]*models.Student{
		"s-1": {ID: "s-1", Name: "Siti", ClassID: "c-1"},
	}}
	notifier := &fakeNotifier{}
	svc := NewStudentService(repo, notifier, nil, nil)

	err := svc.Delete(context.Background(), "s-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"s-1"}, repo.deleted)
	assert.Equal(t, []string{"STUDENT:DELETE"}, notifier.events)
}

func TestStudentServiceDeleteMissingIsNotFound(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{byID: map[string]*models.Student{}}, nil, nil, nil)

	err := svc.Delete(context.Background(), "missing")

	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestStudentServiceUpdateAppliesFields(t *testing.T) {
	repo := &fakeStudentRepo{byID: map[string]*models.Student{
		"s-1": {ID: "s-1", Name: "Siti", ClassID: "c-1"},
	}}
	svc := NewStudentService(repo, nil, nil, nil)

	updated, err := svc.Update(context.Background(), "s-1", UpdateStudentRequest{
		Name:    "Siti Rahma",
		ClassID: "c-2",
	})

	require.NoError(t, err)
	assert.Equal(t, "Siti Rahma", updated.Name)
	assert.Equal(t, "c-2", updated.ClassID)
	require.Len(t, repo.updated, 1)
}
