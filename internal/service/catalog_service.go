package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-enrollment/internal/dto"
	"github.com/noah-isme/campus-enrollment/internal/models"
	"github.com/noah-isme/campus-enrollment/internal/repository"
	appErrors "github.com/noah-isme/campus-enrollment/pkg/errors"
)

type catalogStore interface {
	CreateStudent(student *models.Student) error
	CreateCourse(course *models.Course) error
	FindStudent(id string) (*models.Student, error)
	FindCourse(code string) (*models.Course, error)
	ListCourses() []*models.Course
	Roster(code string) (*models.CourseRoster, error)
	AddCompletedCourse(studentID, courseCode string) (*models.Student, error)
}

// CatalogService manages the students and courses known to the system.
// Enrollment changes go through EnrollmentCoordinator instead.
type CatalogService struct {
	catalog   catalogStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs the catalog service.
func NewCatalogService(catalog catalogStore, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{catalog: catalog, validator: validate, logger: logger}
}

// CreateStudent registers a student, optionally with completed courses.
func (s *CatalogService) CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*models.StudentView, error) {
	req.ID = strings.TrimSpace(req.ID)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	student := models.NewStudent(req.ID, req.Name)
	for _, code := range req.CompletedCourses {
		student.AddCompletedCourse(code)
	}
	if err := s.catalog.CreateStudent(student); err != nil {
		return nil, s.translate(err, "failed to create student")
	}
	s.logger.Info("student registered", zap.String("student_id", student.ID))
	view := student.View()
	return &view, nil
}

// CreateCourse registers a course with its prerequisites.
func (s *CatalogService) CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*models.CourseView, error) {
	req.Code = strings.TrimSpace(req.Code)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	course := models.NewCourse(req.Code, req.Name, req.Capacity, req.Schedule)
	for _, code := range req.Prerequisites {
		if code == req.Code {
			return nil, appErrors.Clone(appErrors.ErrValidation, "a course cannot be its own prerequisite")
		}
		course.AddPrerequisite(code)
	}
	if err := s.catalog.CreateCourse(course); err != nil {
		return nil, s.translate(err, "failed to create course")
	}
	s.logger.Info("course registered", zap.String("course", course.Code), zap.Int("capacity", course.Capacity))
	view := course.View()
	return &view, nil
}

// AddCompletedCourse records a passed course on the student's transcript.
func (s *CatalogService) AddCompletedCourse(ctx context.Context, studentID string, req dto.CompletedCourseRequest) (*models.StudentView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	student, err := s.catalog.AddCompletedCourse(studentID, strings.TrimSpace(req.CourseCode))
	if err != nil {
		return nil, s.translate(err, "failed to record completed course")
	}
	view := student.View()
	return &view, nil
}

// GetStudent returns a student snapshot.
func (s *CatalogService) GetStudent(ctx context.Context, id string) (*models.StudentView, error) {
	student, err := s.catalog.FindStudent(id)
	if err != nil {
		return nil, s.translate(err, "failed to load student")
	}
	view := student.View()
	return &view, nil
}

// GetCourse returns a course snapshot.
func (s *CatalogService) GetCourse(ctx context.Context, code string) (*models.CourseView, error) {
	course, err := s.catalog.FindCourse(code)
	if err != nil {
		return nil, s.translate(err, "failed to load course")
	}
	view := course.View()
	return &view, nil
}

// ListCourses returns every course ordered by code.
func (s *CatalogService) ListCourses(ctx context.Context) []models.CourseView {
	courses := s.catalog.ListCourses()
	views := make([]models.CourseView, 0, len(courses))
	for _, c := range courses {
		views = append(views, c.View())
	}
	return views
}

// Roster lists the students enrolled in a course.
func (s *CatalogService) Roster(ctx context.Context, code string) (*models.CourseRoster, error) {
	roster, err := s.catalog.Roster(code)
	if err != nil {
		return nil, s.translate(err, "failed to load roster")
	}
	return roster, nil
}

func (s *CatalogService) translate(err error, message string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, err.Error())
	case errors.Is(err, repository.ErrDuplicate):
		return appErrors.Clone(appErrors.ErrConflict, err.Error())
	default:
		s.logger.Error(message, zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
	}
}
