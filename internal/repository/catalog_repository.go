package repository

import (
	"fmt"
	"sort"
	"sync"

	"github.com/noah-isme/campus-enrollment/internal/models"
)

// CatalogRepository is the in-memory arena holding every student and course.
// A single RWMutex guards both maps and the entities inside them: Mutate runs
// under the write lock, reads return clones under the read lock.
type CatalogRepository struct {
	mu       sync.RWMutex
	students map[string]*models.Student
	courses  map[string]*models.Course
}

// NewCatalogRepository constructs an empty catalog.
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		students: make(map[string]*models.Student),
		courses:  make(map[string]*models.Course),
	}
}

// CatalogTx exposes the live entities to a function running under the
// catalog write lock. It must not escape that function.
type CatalogTx struct {
	repo *CatalogRepository
}

// Course resolves a course by code inside the critical section.
func (tx CatalogTx) Course(code string) (*models.Course, bool) {
	c, ok := tx.repo.courses[code]
	return c, ok
}

// Student resolves a student by id inside the critical section.
func (tx CatalogTx) Student(id string) (*models.Student, bool) {
	s, ok := tx.repo.students[id]
	return s, ok
}

// CreateStudent registers a new student.
func (r *CatalogRepository) CreateStudent(student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.students[student.ID]; exists {
		return fmt.Errorf("student %s: %w", student.ID, ErrDuplicate)
	}
	r.students[student.ID] = student.Clone()
	return nil
}

// CreateCourse registers a new course.
func (r *CatalogRepository) CreateCourse(course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.courses[course.Code]; exists {
		return fmt.Errorf("course %s: %w", course.Code, ErrDuplicate)
	}
	r.courses[course.Code] = course.Clone()
	return nil
}

// FindStudent returns a snapshot of the student.
func (r *CatalogRepository) FindStudent(id string) (*models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.students[id]
	if !ok {
		return nil, fmt.Errorf("student %s: %w", id, ErrNotFound)
	}
	return s.Clone(), nil
}

// FindCourse returns a snapshot of the course.
func (r *CatalogRepository) FindCourse(code string) (*models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.courses[code]
	if !ok {
		return nil, fmt.Errorf("course %s: %w", code, ErrNotFound)
	}
	return c.Clone(), nil
}

// ListCourses returns course snapshots ordered by code.
func (r *CatalogRepository) ListCourses() []*models.Course {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Course, 0, len(r.courses))
	for _, c := range r.courses {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// ListStudents returns student snapshots ordered by id.
func (r *CatalogRepository) ListStudents() []*models.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Student, 0, len(r.students))
	for _, s := range r.students {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Roster lists the students enrolled in the course, in roster order.
func (r *CatalogRepository) Roster(code string) (*models.CourseRoster, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.courses[code]
	if !ok {
		return nil, fmt.Errorf("course %s: %w", code, ErrNotFound)
	}
	roster := &models.CourseRoster{CourseCode: c.Code, CourseName: c.Name, Students: []models.RosterEntry{}}
	for _, e := range c.Roster() {
		entry := models.RosterEntry{StudentID: e.StudentID}
		if s, ok := r.students[e.StudentID]; ok {
			entry.Name = s.Name
		}
		roster.Students = append(roster.Students, entry)
	}
	return roster, nil
}

// AddCompletedCourse records a completed course for the student.
func (r *CatalogRepository) AddCompletedCourse(studentID, courseCode string) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.students[studentID]
	if !ok {
		return nil, fmt.Errorf("student %s: %w", studentID, ErrNotFound)
	}
	s.AddCompletedCourse(courseCode)
	return s.Clone(), nil
}

// Mutate resolves the student and course and runs fn under the write lock.
// Everything fn reads and writes is serialised against every other Mutate
// and against all readers.
func (r *CatalogRepository) Mutate(studentID, courseCode string, fn func(tx CatalogTx, student *models.Student, course *models.Course) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.students[studentID]
	if !ok {
		return fmt.Errorf("student %s: %w", studentID, ErrNotFound)
	}
	c, ok := r.courses[courseCode]
	if !ok {
		return fmt.Errorf("course %s: %w", courseCode, ErrNotFound)
	}
	return fn(CatalogTx{repo: r}, s, c)
}

// MutateCourse runs fn against a single course under the write lock.
func (r *CatalogRepository) MutateCourse(courseCode string, fn func(tx CatalogTx, course *models.Course) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[courseCode]
	if !ok {
		return fmt.Errorf("course %s: %w", courseCode, ErrNotFound)
	}
	return fn(CatalogTx{repo: r}, c)
}
