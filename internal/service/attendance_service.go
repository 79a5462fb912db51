package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hadirly/hadirly-api/internal/models"
	appErrors "github.com/hadirly/hadirly-api/pkg/errors"
	"github.com/hadirly/hadirly-api/pkg/export"
)

type attendanceRepository interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error)
}

// ExportFormat names a supported attendance export encoding.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportResult bundles rendered bytes with their content type and filename.
type ExportResult struct {
	ContentType string
	Filename    string
	Data        []byte
}

// AttendanceService serves attendance listings and sheet exports.
type AttendanceService struct {
	repo   attendanceRepository
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		repo:   repo,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// List returns attendance records for a class and date window.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	if records == nil {
		records = []models.AttendanceDetail{}
	}
	return records, nil
}

// Export renders an attendance sheet in the requested format.
func (s *AttendanceService) Export(ctx context.Context, filter models.AttendanceFilter, format ExportFormat) (*ExportResult, error) {
	records, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"Date", "Student", "Status"},
		Rows:    make([]map[string]string, 0, len(records)),
	}
	for _, record := range records {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Date":    record.Date.Format("2006-01-02"),
			"Student": record.StudentName,
			"Status":  record.Status,
		})
	}

	stamp := time.Now().UTC().Format("20060102")
	switch format {
	case ExportCSV:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("attendance-%s.csv", stamp),
			Data:        data,
		}, nil
	case ExportPDF:
		data, err := s.pdf.Render(dataset, "Attendance Sheet")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("attendance-%s.pdf", stamp),
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format: %s", format))
	}
}
