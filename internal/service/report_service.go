package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-enrollment/internal/models"
	appErrors "github.com/noah-isme/campus-enrollment/pkg/errors"
	"github.com/noah-isme/campus-enrollment/pkg/export"
)

// ReportCachePattern matches every cached report key.
const ReportCachePattern = "report:*"

const enrollmentReportKey = "report:enrollments"

type courseLister interface {
	ListCourses() []*models.Course
}

// ReportFile is a rendered report ready to be served as a download.
type ReportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ReportService builds the admin seat usage report.
type ReportService struct {
	catalog courseLister
	cache   *CacheService
	logger  *zap.Logger
	now     func() time.Time
}

// NewReportService constructs the report service. A nil cache disables
// caching.
func NewReportService(catalog courseLister, cache *CacheService, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{catalog: catalog, cache: cache, logger: logger, now: time.Now}
}

// Enrollment returns one row per course ordered by course code.
func (s *ReportService) Enrollment(ctx context.Context) (*models.EnrollmentReport, error) {
	report, hit, err := GetOrLoad(ctx, s.cache, enrollmentReportKey, func() (*models.EnrollmentReport, error) {
		return s.build(), nil
	})
	if err != nil {
		return nil, err
	}
	if hit {
		s.logger.Debug("enrollment report served from cache")
	}
	return report, nil
}

// Export renders the report in the requested format.
func (s *ReportService) Export(ctx context.Context, format string) (*ReportFile, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	report, err := s.Enrollment(ctx)
	if err != nil {
		return nil, err
	}

	table := export.Table{Title: "Enrollment Report"}
	if f == export.FormatPDF {
		table.Headers = []string{"Course", "Name", "Enrolled", "Capacity"}
		for _, row := range report.Rows {
			table.AddRow(row.Course, row.Name, strconv.Itoa(row.Enrolled), strconv.Itoa(row.Capacity))
		}
	} else {
		table.Headers = []string{"Course", "Enrolled", "Capacity"}
		for _, row := range report.Rows {
			table.AddRow(row.Course, strconv.Itoa(row.Enrolled), strconv.Itoa(row.Capacity))
		}
	}

	body, err := export.RendererFor(f).Render(table)
	if err != nil {
		s.logger.Error("failed to render enrollment report", zap.String("format", string(f)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	return &ReportFile{
		Filename:    fmt.Sprintf("enrollment-report-%s.%s", report.GeneratedAt.UTC().Format("20060102-150405"), f),
		ContentType: f.ContentType(),
		Body:        body,
	}, nil
}

// Invalidate drops cached reports.
func (s *ReportService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx, ReportCachePattern)
}

func (s *ReportService) build() *models.EnrollmentReport {
	courses := s.catalog.ListCourses()
	report := &models.EnrollmentReport{
		Report:      "enrollment",
		GeneratedAt: s.now().UTC(),
		Rows:        make([]models.EnrollmentReportRow, 0, len(courses)),
	}
	for _, c := range courses {
		report.Rows = append(report.Rows, models.EnrollmentReportRow{
			Course:   c.Code,
			Name:     c.Name,
			Enrolled: c.Enrolled(),
			Capacity: c.Capacity,
		})
	}
	return report
}
