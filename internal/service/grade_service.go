package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-enrollment/internal/dto"
	"github.com/noah-isme/campus-enrollment/internal/models"
	"github.com/noah-isme/campus-enrollment/internal/repository"
	appErrors "github.com/noah-isme/campus-enrollment/pkg/errors"
)

var gradeLetters = map[string]struct{}{"A": {}, "B": {}, "C": {}, "D": {}, "F": {}, "P": {}}

type gradeStore interface {
	Create(grade *models.Grade) error
	FindByID(id string) (*models.Grade, error)
	FindByEnrollment(studentID, courseCode string) (*models.Grade, error)
	ListByCourse(courseCode string) []models.Grade
	Update(id string, fn func(grade *models.Grade) error) (*models.Grade, error)
}

type catalogReader interface {
	FindStudent(id string) (*models.Student, error)
	FindCourse(code string) (*models.Course, error)
}

// GradeService records letter grades and drives them through the
// Pending -> Submitted -> Final lifecycle.
type GradeService struct {
	grades    gradeStore
	catalog   catalogReader
	events    eventPublisher
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	newID     func() string
}

// NewGradeService constructs the grade service.
func NewGradeService(grades gradeStore, catalog catalogReader, events eventPublisher, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &GradeService{
		grades:    grades,
		catalog:   catalog,
		events:    events,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		newID:     uuid.NewString,
	}
	if err := registerGradeLetter(svc.validator); err != nil {
		logger.Error("failed to register grade_letter validation", zap.Error(err))
	}
	return svc
}

// registerGradeLetter adds the grade_letter tag accepting the known letters.
func registerGradeLetter(v *validator.Validate) error {
	return v.RegisterValidation("grade_letter", func(fl validator.FieldLevel) bool {
		_, ok := gradeLetters[fl.Field().String()]
		return ok
	})
}

// Create records a pending grade. When req.Submit is set the grade is
// submitted immediately and the outcome of that transition is returned.
func (s *GradeService) Create(ctx context.Context, req dto.CreateGradeRequest) (*dto.GradeResult, error) {
	req.Letter = strings.ToUpper(strings.TrimSpace(req.Letter))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if req.Submit && req.Letter == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "letter is required to submit a grade")
	}
	if _, err := s.catalog.FindStudent(req.StudentID); err != nil {
		return nil, s.translate(err, "failed to load student")
	}
	if _, err := s.catalog.FindCourse(req.CourseCode); err != nil {
		return nil, s.translate(err, "failed to load course")
	}

	grade := models.NewGrade(s.newID(), req.StudentID, req.CourseCode)
	grade.Letter = req.Letter
	if err := s.grades.Create(grade); err != nil {
		return nil, s.translate(err, "failed to create grade")
	}
	s.logger.Info("grade created", zap.String("grade_id", grade.ID), zap.Stringer("grade", grade))

	if !req.Submit {
		return &dto.GradeResult{Grade: grade}, nil
	}
	return s.transition(ctx, grade.ID, models.GradeOpSubmit)
}

// Submit moves a pending grade to Submitted.
func (s *GradeService) Submit(ctx context.Context, id string) (*dto.GradeResult, error) {
	return s.transition(ctx, id, models.GradeOpSubmit)
}

// Approve moves a submitted grade to Final.
func (s *GradeService) Approve(ctx context.Context, id string) (*dto.GradeResult, error) {
	return s.transition(ctx, id, models.GradeOpApprove)
}

// SetLetter replaces the letter of a pending grade. Once submitted the letter
// is locked.
func (s *GradeService) SetLetter(ctx context.Context, id string, req dto.SetLetterRequest) (*models.Grade, error) {
	req.Letter = strings.ToUpper(strings.TrimSpace(req.Letter))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	grade, err := s.grades.Update(id, func(g *models.Grade) error {
		if g.State != models.GradeStatePending {
			return appErrors.Clone(appErrors.ErrFinalized, fmt.Sprintf("grade is %s, letter can no longer change", g.State))
		}
		g.Letter = req.Letter
		return nil
	})
	if err != nil {
		return nil, s.translate(err, "failed to update grade letter")
	}
	return grade, nil
}

// Get returns a grade by id.
func (s *GradeService) Get(ctx context.Context, id string) (*models.Grade, error) {
	grade, err := s.grades.FindByID(id)
	if err != nil {
		return nil, s.translate(err, "failed to load grade")
	}
	return grade, nil
}

// Latest returns the most recent grade of the student in the course.
func (s *GradeService) Latest(ctx context.Context, studentID, courseCode string) (*models.Grade, error) {
	grade, err := s.grades.FindByEnrollment(studentID, courseCode)
	if err != nil {
		return nil, s.translate(err, "failed to load grade")
	}
	return grade, nil
}

// ListByCourse returns every grade recorded for the course.
func (s *GradeService) ListByCourse(ctx context.Context, courseCode string) ([]models.Grade, error) {
	if _, err := s.catalog.FindCourse(courseCode); err != nil {
		return nil, s.translate(err, "failed to load course")
	}
	grades := s.grades.ListByCourse(courseCode)
	if grades == nil {
		grades = []models.Grade{}
	}
	return grades, nil
}

// transition applies op. A rejected transition is not an error: the grade is
// returned unchanged together with the outcome explaining why.
func (s *GradeService) transition(_ context.Context, id string, op models.GradeOperation) (*dto.GradeResult, error) {
	var outcome models.TransitionOutcome
	grade, err := s.grades.Update(id, func(g *models.Grade) error {
		if op == models.GradeOpSubmit && g.State == models.GradeStatePending && g.Letter == "" {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, "letter is required to submit a grade")
		}
		switch op {
		case models.GradeOpSubmit:
			outcome = g.Submit()
		case models.GradeOpApprove:
			outcome = g.Approve()
		default:
			_, outcome = models.NextGradeState(g.State, op)
		}
		return nil
	})
	if err != nil {
		return nil, s.translate(err, "failed to update grade")
	}

	s.metrics.ObserveGradeTransition(string(outcome.Operation), string(outcome.From), string(outcome.To), outcome.Applied)
	if !outcome.Applied {
		s.logger.Info("grade transition ignored",
			zap.String("grade_id", id),
			zap.String("operation", string(op)),
			zap.String("state", grade.StateName()),
			zap.String("reason", outcome.Message),
		)
		return &dto.GradeResult{Grade: grade, Transition: &outcome}, nil
	}

	s.logger.Info("grade transitioned", zap.String("grade_id", id), zap.String("transition", outcome.Message))
	if s.events != nil {
		s.events.Publish(models.TopicGrade, fmt.Sprintf("Grade %s for %s in %s: %s", grade.ID, grade.StudentID, grade.CourseCode, outcome.Message))
	}
	return &dto.GradeResult{Grade: grade, Transition: &outcome}, nil
}

func (s *GradeService) translate(err error, message string) error {
	var appErr *appErrors.Error
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, repository.ErrNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, err.Error())
	case errors.Is(err, repository.ErrDuplicate):
		return appErrors.Clone(appErrors.ErrConflict, err.Error())
	default:
		s.logger.Error(message, zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
	}
}
