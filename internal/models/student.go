package models

import (
	"errors"
	"fmt"
	"sort"
)

// Errors reported by entity mutators.
var (
	ErrDuplicateEnrollment = errors.New("enrollment already recorded")
	ErrEnrollmentMissing   = errors.New("enrollment not recorded")
)

// Student is a learner with a history of completed courses and a live list
// of enrollments.
type Student struct {
	ID               string
	Name             string
	completedCourses map[string]struct{}
	enrollments      []Enrollment
}

// NewStudent constructs a student with no history.
func NewStudent(id, name string) *Student {
	return &Student{ID: id, Name: name, completedCourses: make(map[string]struct{})}
}

// AddCompletedCourse records a passed course. The set only grows.
func (s *Student) AddCompletedCourse(code string) {
	if s.completedCourses == nil {
		s.completedCourses = make(map[string]struct{})
	}
	s.completedCourses[code] = struct{}{}
}

// HasCompleted reports whether the course code is in the completed set.
func (s *Student) HasCompleted(code string) bool {
	_, ok := s.completedCourses[code]
	return ok
}

// CompletedCourses returns the completed course codes in sorted order.
func (s *Student) CompletedCourses() []string {
	codes := make([]string, 0, len(s.completedCourses))
	for code := range s.completedCourses {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Enrollments returns a copy of the ordered enrollment list.
func (s *Student) Enrollments() []Enrollment {
	return append([]Enrollment(nil), s.enrollments...)
}

// EnrollmentFor finds the enrollment for the course code.
func (s *Student) EnrollmentFor(courseCode string) (Enrollment, bool) {
	for _, e := range s.enrollments {
		if e.CourseCode == courseCode {
			return e, true
		}
	}
	return Enrollment{}, false
}

// AddEnrollment appends the enrollment, refusing duplicates.
func (s *Student) AddEnrollment(e Enrollment) error {
	if e.StudentID != s.ID {
		return fmt.Errorf("enrollment %s does not belong to student %s", e, s.ID)
	}
	if indexOf(s.enrollments, e) >= 0 {
		return ErrDuplicateEnrollment
	}
	s.enrollments = append(s.enrollments, e)
	return nil
}

// RemoveEnrollment deletes the enrollment from the list.
func (s *Student) RemoveEnrollment(e Enrollment) error {
	idx := indexOf(s.enrollments, e)
	if idx < 0 {
		return ErrEnrollmentMissing
	}
	s.enrollments = removeAt(s.enrollments, idx)
	return nil
}

// Clone returns a deep copy safe to hand out of the catalog lock.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}
	out := NewStudent(s.ID, s.Name)
	for code := range s.completedCourses {
		out.completedCourses[code] = struct{}{}
	}
	out.enrollments = s.Enrollments()
	return out
}

// String renders the student for log output.
func (s *Student) String() string {
	return fmt.Sprintf("Student[%s:%s]", s.ID, s.Name)
}

// StudentView is the serialisable projection of a Student.
type StudentView struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	CompletedCourses []string `json:"completed_courses"`
	Enrollments      []string `json:"enrollments"`
}

// View projects the student for API responses.
func (s *Student) View() StudentView {
	courses := make([]string, 0, len(s.enrollments))
	for _, e := range s.enrollments {
		courses = append(courses, e.CourseCode)
	}
	return StudentView{ID: s.ID, Name: s.Name, CompletedCourses: s.CompletedCourses(), Enrollments: courses}
}
