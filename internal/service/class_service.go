package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hadirly/hadirly-api/internal/models"
	appErrors "github.com/hadirly/hadirly-api/pkg/errors"
)

const (
	classListCacheKey = "classes:list"
	classCachePattern = "classes:*"
)

type classRepository interface {
	List(ctx context.Context) ([]models.Class, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	AssignManager(ctx context.Context, classID, userID string) error
	RemoveManager(ctx context.Context, classID, userID string) error
	Managers(ctx context.Context, classID string) ([]models.User, error)
}

// CreateClassRequest holds payload for creating classes.
type CreateClassRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

// AssignManagerRequest links a user to a class.
type AssignManagerRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// ClassService handles class use-cases.
type ClassService struct {
	repo      classRepository
	cache     *CacheService
	notifier  changeNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs the class service.
func NewClassService(repo classRepository, cache *CacheService, notifier changeNotifier, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, cache: cache, notifier: notifier, validator: validate, logger: logger}
}

// List returns all non-deleted classes, served from cache when warm.
func (s *ClassService) List(ctx context.Context) ([]models.Class, error) {
	var cached []models.Class
	if hit, _ := s.cache.Get(ctx, classListCacheKey, &cached); hit {
		return cached, nil
	}

	classes, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	if classes == nil {
		classes = []models.Class{}
	}
	if err := s.cache.Set(ctx, classListCacheKey, classes, 0); err != nil {
		s.logger.Warn("class list cache write failed", zap.Error(err))
	}
	return classes, nil
}

// Get returns a class by id.
func (s *ClassService) Get(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// Create registers a new class.
func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class := &models.Class{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	s.afterWrite(ctx, models.OpCreate)
	return class, nil
}

// AssignManager puts a user in charge of a class. Callers must hold the
// ADMIN role; the handler enforces that.
func (s *ClassService) AssignManager(ctx context.Context, classID string, req AssignManagerRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid manager payload")
	}
	if _, err := s.Get(ctx, classID); err != nil {
		return err
	}
	if err := s.repo.AssignManager(ctx, classID, req.UserID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign manager")
	}
	return nil
}

// RemoveManager revokes a user's management of a class.
func (s *ClassService) RemoveManager(ctx context.Context, classID, userID string) error {
	if err := s.repo.RemoveManager(ctx, classID, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove manager")
	}
	return nil
}

// Managers lists the users managing a class.
func (s *ClassService) Managers(ctx context.Context, classID string) ([]models.User, error) {
	if _, err := s.Get(ctx, classID); err != nil {
		return nil, err
	}
	managers, err := s.repo.Managers(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list managers")
	}
	if managers == nil {
		managers = []models.User{}
	}
	return managers, nil
}

func (s *ClassService) afterWrite(ctx context.Context, op models.Operation) {
	if s.notifier != nil {
		s.notifier.EntityChanged(models.EntityClass, op)
	}
	if err := s.cache.Invalidate(ctx, classCachePattern); err != nil {
		s.logger.Warn("class cache invalidation failed", zap.Error(err))
	}
}
