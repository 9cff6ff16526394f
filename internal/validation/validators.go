// Package validation holds the business rules a candidate enrollment must
// pass before the coordinator mutates any state.
package validation

import (
	"fmt"

	"github.com/noah-isme/campus-enrollment/internal/models"
)

// Rule names.
const (
	RulePrerequisite = "prerequisite"
	RuleCapacity     = "capacity"
	RuleTimeConflict = "time_conflict"
)

// ReasonCourseFull is reported by the capacity rule.
const ReasonCourseFull = "course is full"

// Failure explains why a rule rejected an enrollment.
type Failure struct {
	Rule   string
	Reason string
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Rule, f.Reason)
}

// CheckFunc evaluates one rule. It returns nil when the enrollment passes and
// must not modify either entity.
type CheckFunc func(student *models.Student, course *models.Course) *Failure

// Validator is a named rule.
type Validator struct {
	Name  string
	Check CheckFunc
}

// CourseResolver looks up a course by code. The caller holds whatever lock
// guards the catalog.
type CourseResolver func(code string) (*models.Course, bool)

// Prerequisite fails when any prerequisite of the course is missing from the
// student's completed courses. Exactly one missing code is named.
func Prerequisite() Validator {
	return Validator{Name: RulePrerequisite, Check: func(student *models.Student, course *models.Course) *Failure {
		for _, code := range course.Prerequisites() {
			if !student.HasCompleted(code) {
				return &Failure{Rule: RulePrerequisite, Reason: "missing prerequisite: " + code}
			}
		}
		return nil
	}}
}

// Capacity fails when the roster has reached the course capacity.
func Capacity() Validator {
	return Validator{Name: RuleCapacity, Check: func(_ *models.Student, course *models.Course) *Failure {
		if course.IsFull() {
			return &Failure{Rule: RuleCapacity, Reason: ReasonCourseFull}
		}
		return nil
	}}
}

// TimeConflict fails when the student already holds an enrollment in a course
// sharing the candidate's schedule slot.
func TimeConflict(resolve CourseResolver) Validator {
	return Validator{Name: RuleTimeConflict, Check: func(student *models.Student, course *models.Course) *Failure {
		for _, e := range student.Enrollments() {
			enrolled, ok := resolve(e.CourseCode)
			if !ok {
				continue
			}
			if enrolled.Schedule == course.Schedule {
				return &Failure{Rule: RuleTimeConflict, Reason: "time conflict with " + enrolled.Code}
			}
		}
		return nil
	}}
}
