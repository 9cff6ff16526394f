package models

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNegativeCapacity is returned when a capacity override is below zero.
var ErrNegativeCapacity = errors.New("capacity must not be negative")

// Course is an offering with a seat limit, prerequisites and a schedule slot.
// The roster may exceed capacity through administrative overrides; the
// capacity rule is enforced by the enrollment validators, not here.
type Course struct {
	Code          string
	Name          string
	Capacity      int
	Schedule      string
	prerequisites map[string]struct{}
	roster        []Enrollment
}

// NewCourse constructs a course with an empty roster.
func NewCourse(code, name string, capacity int, schedule string) *Course {
	return &Course{Code: code, Name: name, Capacity: capacity, Schedule: schedule, prerequisites: make(map[string]struct{})}
}

// AddPrerequisite requires the course code to be completed before enrolling.
func (c *Course) AddPrerequisite(code string) {
	if c.prerequisites == nil {
		c.prerequisites = make(map[string]struct{})
	}
	c.prerequisites[code] = struct{}{}
}

// Prerequisites returns prerequisite codes in sorted order.
func (c *Course) Prerequisites() []string {
	codes := make([]string, 0, len(c.prerequisites))
	for code := range c.prerequisites {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// SetCapacity overrides the seat limit.
func (c *Course) SetCapacity(capacity int) error {
	if capacity < 0 {
		return ErrNegativeCapacity
	}
	c.Capacity = capacity
	return nil
}

// Enrolled returns the roster size.
func (c *Course) Enrolled() int {
	return len(c.roster)
}

// IsFull reports whether no seat is left under the current capacity.
func (c *Course) IsFull() bool {
	return len(c.roster) >= c.Capacity
}

// Roster returns a copy of the ordered roster.
func (c *Course) Roster() []Enrollment {
	return append([]Enrollment(nil), c.roster...)
}

// AddEnrollment appends the enrollment to the roster, refusing duplicates.
func (c *Course) AddEnrollment(e Enrollment) error {
	if e.CourseCode != c.Code {
		return fmt.Errorf("enrollment %s does not belong to course %s", e, c.Code)
	}
	if indexOf(c.roster, e) >= 0 {
		return ErrDuplicateEnrollment
	}
	c.roster = append(c.roster, e)
	return nil
}

// RemoveEnrollment deletes the enrollment from the roster.
func (c *Course) RemoveEnrollment(e Enrollment) error {
	idx := indexOf(c.roster, e)
	if idx < 0 {
		return ErrEnrollmentMissing
	}
	c.roster = removeAt(c.roster, idx)
	return nil
}

// Clone returns a deep copy safe to hand out of the catalog lock.
func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}
	out := NewCourse(c.Code, c.Name, c.Capacity, c.Schedule)
	for code := range c.prerequisites {
		out.prerequisites[code] = struct{}{}
	}
	out.roster = c.Roster()
	return out
}

// String renders the course for log output.
func (c *Course) String() string {
	return fmt.Sprintf("Course[%s:%s]", c.Code, c.Name)
}

// CourseView is the serialisable projection of a Course.
type CourseView struct {
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	Capacity      int      `json:"capacity"`
	Enrolled      int      `json:"enrolled"`
	Schedule      string   `json:"schedule"`
	Prerequisites []string `json:"prerequisites"`
}

// View projects the course for API responses.
func (c *Course) View() CourseView {
	return CourseView{
		Code:          c.Code,
		Name:          c.Name,
		Capacity:      c.Capacity,
		Enrolled:      len(c.roster),
		Schedule:      c.Schedule,
		Prerequisites: c.Prerequisites(),
	}
}

// RosterEntry pairs a rostered student id with the student's name.
type RosterEntry struct {
	StudentID string `json:"id"`
	Name      string `json:"name"`
}

// CourseRoster lists the students currently enrolled in a course.
type CourseRoster struct {
	CourseCode string        `json:"course_id"`
	CourseName string        `json:"course_name"`
	Students   []RosterEntry `json:"students"`
}
