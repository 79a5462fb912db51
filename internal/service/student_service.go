package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hadirly/hadirly-api/internal/models"
	appErrors "github.com/hadirly/hadirly-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	SoftDelete(ctx context.Context, id string) error
}

// CreateStudentRequest holds payload for creating students. The client may
// supply its own id so the record keeps the identity it already has offline.
type CreateStudentRequest struct {
	ID        string     `json:"id"`
	Name      string     `json:"name" validate:"required"`
	Phone     *string    `json:"phone"`
	ClassID   string     `json:"classId" validate:"required"`
	Address   *string    `json:"address"`
	Birthdate *time.Time `json:"birthdate"`
}

// UpdateStudentRequest holds payload for updating students.
type UpdateStudentRequest struct {
	Name      string     `json:"name" validate:"required"`
	Phone     *string    `json:"phone"`
	ClassID   string     `json:"classId" validate:"required"`
	Address   *string    `json:"address"`
	Birthdate *time.Time `json:"birthdate"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	notifier  changeNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, notifier changeNotifier, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, notifier: notifier, validator: validate, logger: logger}
}

// List returns students, optionally scoped to a class. Tombstoned rows are
// excluded; they are only visible through the pull feed.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	students, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, nil
}

// Get returns a student by id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student.IsDeleted {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return student, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student := &models.Student{
		ID:        req.ID,
		Name:      req.Name,
		Phone:     req.Phone,
		ClassID:   req.ClassID,
		Address:   req.Address,
		Birthdate: req.Birthdate,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.notify(models.OpCreate)
	return student, nil
}

// Update modifies an existing student record.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	student.Name = req.Name
	student.Phone = req.Phone
	student.ClassID = req.ClassID
	student.Address = req.Address
	student.Birthdate = req.Birthdate
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	s.notify(models.OpUpdate)
	return student, nil
}

// Delete tombstones a student. The row stays behind so offline clients
// converge on the deletion through their next pull.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.notify(models.OpDelete)
	return nil
}

func (s *StudentService) notify(op models.Operation) {
	if s.notifier != nil {
		s.notifier.EntityChanged(models.EntityStudent, op)
	}
}
