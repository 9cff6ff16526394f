package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-enrollment/internal/models"
	"github.com/noah-isme/campus-enrollment/internal/repository"
	"github.com/noah-isme/campus-enrollment/internal/validation"
	appErrors "github.com/noah-isme/campus-enrollment/pkg/errors"
)

type catalogMutator interface {
	Mutate(studentID, courseCode string, fn func(tx repository.CatalogTx, student *models.Student, course *models.Course) error) error
	MutateCourse(courseCode string, fn func(tx repository.CatalogTx, course *models.Course) error) error
}

type eventPublisher interface {
	Publish(topic, message string)
}

// Enrollment attempt outcomes used as metric labels.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeOverride = "override"
	OutcomeError    = "error"
)

// ChainFactory builds the validator chain for one attempt, given a course
// resolver bound to the current critical section.
type ChainFactory func(resolve validation.CourseResolver) validation.Chain

// EnrollmentDecision is the result of an enrollment attempt. A rejected
// attempt is a normal outcome, not an error: Rule and Reason explain it.
type EnrollmentDecision struct {
	StudentID  string `json:"student_id"`
	CourseCode string `json:"course_code"`
	Accepted   bool   `json:"accepted"`
	Override   bool   `json:"override,omitempty"`
	Rule       string `json:"rule,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Enrolled   int    `json:"enrolled"`
	Capacity   int    `json:"capacity"`
}

// EnrollmentCoordinator is the only path through which enrollments change.
// Each operation runs validation, the two-sided mutation and event publishing
// inside the catalog's exclusive section, so capacity checks and roster
// updates for a course can never interleave.
type EnrollmentCoordinator struct {
	catalog catalogMutator
	chain   ChainFactory
	events  eventPublisher
	metrics *MetricsService
	logger  *zap.Logger
}

// NewEnrollmentCoordinator constructs the coordinator. A nil chain uses
// validation.DefaultChain.
func NewEnrollmentCoordinator(catalog catalogMutator, chain ChainFactory, events eventPublisher, metrics *MetricsService, logger *zap.Logger) *EnrollmentCoordinator {
	if chain == nil {
		chain = validation.DefaultChain
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentCoordinator{catalog: catalog, chain: chain, events: events, metrics: metrics, logger: logger}
}

// Enroll validates and records the enrollment of a student in a course.
func (c *EnrollmentCoordinator) Enroll(studentID, courseCode string) (*EnrollmentDecision, error) {
	decision := &EnrollmentDecision{StudentID: studentID, CourseCode: courseCode}
	err := c.catalog.Mutate(studentID, courseCode, func(tx repository.CatalogTx, student *models.Student, course *models.Course) error {
		c.logger.Info("attempting enrollment", zap.Stringer("student", student), zap.Stringer("course", course))

		if failure := c.chain(tx.Course).Run(student, course); failure != nil {
			decision.Rule = failure.Rule
			decision.Reason = failure.Reason
			decision.Enrolled, decision.Capacity = course.Enrolled(), course.Capacity
			c.logger.Info("enrollment rejected",
				zap.String("student_id", studentID),
				zap.String("course", courseCode),
				zap.String("rule", failure.Rule),
				zap.String("reason", failure.Reason),
			)
			return nil
		}

		e, err := attach(student, course)
		if err != nil {
			return err
		}
		decision.Accepted = true
		decision.Enrolled, decision.Capacity = course.Enrolled(), course.Capacity
		c.logger.Info("enrollment successful", zap.Stringer("enrollment", e))
		c.publish(models.TopicEnrollment, fmt.Sprintf("Student %s enrolled in %s", studentID, courseCode))
		return nil
	})
	if err != nil {
		c.metrics.ObserveEnrollment(OutcomeError, "")
		return nil, c.translate(err, "failed to enroll student")
	}
	if decision.Accepted {
		c.metrics.ObserveEnrollment(OutcomeAccepted, "")
	} else {
		c.metrics.ObserveEnrollment(OutcomeRejected, decision.Rule)
	}
	return decision, nil
}

// Drop removes the student's enrollment in the course. It returns false,
// without publishing anything, when the student is not enrolled.
func (c *EnrollmentCoordinator) Drop(studentID, courseCode string) (bool, error) {
	dropped := false
	err := c.catalog.Mutate(studentID, courseCode, func(_ repository.CatalogTx, student *models.Student, course *models.Course) error {
		e, ok := student.EnrollmentFor(courseCode)
		if !ok {
			c.logger.Info("drop ignored, student not enrolled", zap.String("student_id", studentID), zap.String("course", courseCode))
			return nil
		}
		if err := detach(student, course, e); err != nil {
			return err
		}
		dropped = true
		c.logger.Info("enrollment dropped", zap.Stringer("enrollment", e))
		c.publish(models.TopicDrop, fmt.Sprintf("Student %s dropped %s", studentID, courseCode))
		c.publish(models.TopicWaitlist, fmt.Sprintf("Seat opened in %s", courseCode))
		return nil
	})
	if err != nil {
		return false, c.translate(err, "failed to drop enrollment")
	}
	return dropped, nil
}

// ForceAdd records the enrollment without running any validator, so the
// roster may exceed capacity. Only an existing identical enrollment stops it.
func (c *EnrollmentCoordinator) ForceAdd(studentID, courseCode string) (*EnrollmentDecision, error) {
	decision := &EnrollmentDecision{StudentID: studentID, CourseCode: courseCode, Override: true}
	err := c.catalog.Mutate(studentID, courseCode, func(_ repository.CatalogTx, student *models.Student, course *models.Course) error {
		e, err := attach(student, course)
		if err != nil {
			return err
		}
		decision.Accepted = true
		decision.Enrolled, decision.Capacity = course.Enrolled(), course.Capacity
		c.logger.Warn("enrollment force-added", zap.Stringer("enrollment", e), zap.Int("enrolled", decision.Enrolled), zap.Int("capacity", decision.Capacity))
		c.publish(models.TopicEnrollment, fmt.Sprintf("Student %s enrolled in %s (override)", studentID, courseCode))
		return nil
	})
	if err != nil {
		c.metrics.ObserveEnrollment(OutcomeError, "")
		return nil, c.translate(err, "failed to force-add student")
	}
	c.metrics.ObserveEnrollment(OutcomeOverride, "")
	return decision, nil
}

// UpdateCapacity overrides the seat limit of a course. Existing enrollments
// are kept even when the roster now exceeds the new capacity.
func (c *EnrollmentCoordinator) UpdateCapacity(courseCode string, capacity int) (*models.CourseView, error) {
	var view models.CourseView
	err := c.catalog.MutateCourse(courseCode, func(_ repository.CatalogTx, course *models.Course) error {
		previous := course.Capacity
		if err := course.SetCapacity(capacity); err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
		view = course.View()
		c.logger.Info("course capacity updated", zap.String("course", courseCode), zap.Int("from", previous), zap.Int("to", capacity))
		c.publish(models.TopicCapacity, fmt.Sprintf("Capacity of %s set to %d", courseCode, capacity))
		return nil
	})
	if err != nil {
		return nil, c.translate(err, "failed to update capacity")
	}
	return &view, nil
}

func (c *EnrollmentCoordinator) publish(topic, message string) {
	if c.events == nil {
		return
	}
	c.events.Publish(topic, message)
}

func (c *EnrollmentCoordinator) translate(err error, message string) error {
	var appErr *appErrors.Error
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, repository.ErrNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, err.Error())
	case errors.Is(err, models.ErrDuplicateEnrollment):
		return appErrors.Clone(appErrors.ErrAlreadyEnrolled, "")
	default:
		c.logger.Error(message, zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
	}
}

// attach appends the enrollment to the roster and then to the student. If
// the second append fails the first is undone, so no enrollment is ever
// visible on one side only.
func attach(student *models.Student, course *models.Course) (models.Enrollment, error) {
	e := models.Enrollment{StudentID: student.ID, CourseCode: course.Code}
	if err := course.AddEnrollment(e); err != nil {
		return e, err
	}
	if err := student.AddEnrollment(e); err != nil {
		if rbErr := course.RemoveEnrollment(e); rbErr != nil {
			return e, fmt.Errorf("rollback %s: %w", e, errors.Join(err, rbErr))
		}
		return e, err
	}
	return e, nil
}

// detach removes the enrollment from both sides. Both memberships are
// checked before anything is removed.
func detach(student *models.Student, course *models.Course, e models.Enrollment) error {
	if !containsEnrollment(course.Roster(), e) {
		return fmt.Errorf("inconsistent enrollment %s: missing from roster", e)
	}
	if err := student.RemoveEnrollment(e); err != nil {
		return err
	}
	return course.RemoveEnrollment(e)
}

func containsEnrollment(list []models.Enrollment, e models.Enrollment) bool {
	for _, existing := range list {
		if existing == e {
			return true
		}
	}
	return false
}
