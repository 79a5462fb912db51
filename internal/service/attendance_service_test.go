package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadirly/hadirly-api/internal/models"
)

type fakeAttendanceRepo struct {
	records []models.AttendanceDetail
	err     error
	lastFilter models.AttendanceFilter
}

func (f *fakeAttendanceRepo) List(_ context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error) {
	f.lastFilter = filter
	return f.records, f.err
}

func sampleAttendance() []models.AttendanceDetail {
	return []models.AttendanceDetail{
		{
			AttendanceRecord: models.AttendanceRecord{
				ID:        "a-1",
				StudentID: "s-1",
				Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
				Status:    models.AttendancePresent,
			},
			StudentName: "Siti",
		},
		{
			AttendanceRecord: models.AttendanceRecord{
				ID:        "a-2",
				StudentID: "s-2",
				Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
				Status:    models.AttendanceLate,
			},
			StudentName: "Budi",
		},
	}
}

func TestAttendanceServiceListPassesFilter(t *testing.T) {
	repo := &fakeAttendanceRepo{records: sampleAttendance()}
	svc := NewAttendanceService(repo, nil)

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	records, err := svc.List(context.Background(), models.AttendanceFilter{ClassID: "c-1", From: &from})

	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "c-1", repo.lastFilter.ClassID)
	require.NotNil(t, repo.lastFilter.From)
	assert.True(t, repo.lastFilter.From.Equal(from))
}

func TestAttendanceServiceListEmptyIsNotNil(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceRepo{}, nil)

	records, err := svc.List(context.Background(), models.AttendanceFilter{})

	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestAttendanceServiceExportCSV(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceRepo{records: sampleAttendance()}, nil)

	result, err := svc.Export(context.Background(), models.AttendanceFilter{}, ExportCSV)

	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasPrefix(result.Filename, "attendance-"))
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	lines := strings.Split(strings.TrimSpace(string(result.Data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Student,Status", lines[0])
	assert.Equal(t, "2025-03-10,Siti,PRESENT", lines[1])
	assert.Equal(t, "2025-03-10,Budi,LATE", lines[2])
}

func TestAttendanceServiceExportPDF(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceRepo{records: sampleAttendance()}, nil)

	result, err := svc.Export(context.Background(), models.AttendanceFilter{}, ExportPDF)

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".pdf"))
	assert.NotEmpty(t, result.Data)
	assert.True(t, strings.HasPrefix(string(result.Data[:5]), "%PDF-"))
}

func TestAttendanceServiceExportUnsupportedFormat(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceRepo{}, nil)

	result, err := svc.Export(context.Background(), models.AttendanceFilter{}, ExportFormat("xlsx"))

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}
