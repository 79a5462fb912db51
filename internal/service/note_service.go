package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/hadirly/hadirly-api/internal/models"
	appErrors "github.com/hadirly/hadirly-api/pkg/errors"
)

type noteRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Note, error)
}

// NoteService serves read access to student notes. Note writes arrive only
// through the sync path.
type NoteService struct {
	repo   noteRepository
	logger *zap.Logger
}

// NewNoteService constructs the note service.
func NewNoteService(repo noteRepository, logger *zap.Logger) *NoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoteService{repo: repo, logger: logger}
}

// ListByStudent returns a student's notes, newest first.
func (s *NoteService) ListByStudent(ctx context.Context, studentID string) ([]models.Note, error) {
	notes, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notes")
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return notes, nil
}
