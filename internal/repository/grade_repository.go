package repository

import (
	"fmt"
	"sort"
	"sync"

	"github.com/noah-isme/campus-enrollment/internal/models"
)

// GradeRepository keeps grade records in memory, keyed by grade id.
type GradeRepository struct {
	mu     sync.Mutex
	grades map[string]*models.Grade
}

// NewGradeRepository constructs an empty grade store.
func NewGradeRepository() *GradeRepository {
	return &GradeRepository{grades: make(map[string]*models.Grade)}
}

// Create stores a new grade.
func (r *GradeRepository) Create(grade *models.Grade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.grades[grade.ID]; exists {
		return fmt.Errorf("grade %s: %w", grade.ID, ErrDuplicate)
	}
	stored := *grade
	r.grades[grade.ID] = &stored
	return nil
}

// FindByID returns a copy of the grade.
func (r *GradeRepository) FindByID(id string) (*models.Grade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.grades[id]
	if !ok {
		return nil, fmt.Errorf("grade %s: %w", id, ErrNotFound)
	}
	out := *g
	return &out, nil
}

// FindByEnrollment returns the most recent grade recorded for the student in
// the course.
func (r *GradeRepository) FindByEnrollment(studentID, courseCode string) (*models.Grade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.Grade
	for _, g := range r.grades {
		if g.StudentID != studentID || g.CourseCode != courseCode {
			continue
		}
		if latest == nil || g.CreatedAt.After(latest.CreatedAt) || (g.CreatedAt.Equal(latest.CreatedAt) && g.ID > latest.ID) {
			latest = g
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("grade for %s/%s: %w", studentID, courseCode, ErrNotFound)
	}
	out := *latest
	return &out, nil
}

// ListByCourse returns the course's grades ordered by creation time.
func (r *GradeRepository) ListByCourse(courseCode string) []models.Grade {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Grade
	for _, g := range r.grades {
		if g.CourseCode == courseCode {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Update runs fn on a working copy of the grade under the store lock. The
// copy replaces the stored grade only when fn succeeds.
func (r *GradeRepository) Update(id string, fn func(grade *models.Grade) error) (*models.Grade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.grades[id]
	if !ok {
		return nil, fmt.Errorf("grade %s: %w", id, ErrNotFound)
	}
	working := *g
	if err := fn(&working); err != nil {
		return nil, err
	}
	*g = working
	out := working
	return &out, nil
}
