package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-enrollment/internal/dto"
	"github.com/noah-isme/campus-enrollment/internal/repository"
	appErrors "github.com/noah-isme/campus-enrollment/pkg/errors"
)

func TestCatalogServiceCreateAndEnroll(t *testing.T) {
	catalog := repository.NewCatalogRepository()
	svc := NewCatalogService(catalog, nil, nil)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, dto.CreateCourseRequest{Code: "CS301", Name: "Compilers", Capacity: 1, Schedule: "Wed13-15", Prerequisites: []string{"CS201"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"CS201"}, course.Prerequisites)

	student, err := svc.CreateStudent(ctx, dto.CreateStudentRequest{ID: " S010 ", Name: "Dana"})
	require.NoError(t, err)
	assert.Equal(t, "S010", student.ID)
	assert.Empty(t, student.Enrollments)

	coordinator := NewEnrollmentCoordinator(catalog, nil, nil, nil, nil)
	decision, err := coordinator.Enroll("S010", "CS301")
	require.NoError(t, err)
	assert.False(t, decision.Accepted)

	updated, err := svc.AddCompletedCourse(ctx, "S010", dto.CompletedCourseRequest{CourseCode: "CS201"})
	require.NoError(t, err)
	assert.Equal(t, []string{"CS201"}, updated.CompletedCourses)

	decision, err = coordinator.Enroll("S010", "CS301")
	require.NoError(t, err)
	assert.True(t, decision.Accepted)

	roster, err := svc.Roster(ctx, "CS301")
	require.NoError(t, err)
	require.Len(t, roster.Students, 1)
	assert.Equal(t, "Dana", roster.Students[0].Name)
}

func TestCatalogServiceErrors(t *testing.T) {
	catalog := repository.NewCatalogRepository()
	svc := NewCatalogService(catalog, nil, nil)
	ctx := context.Background()

	_, err := svc.CreateStudent(ctx, dto.CreateStudentRequest{ID: "S1"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.CreateCourse(ctx, dto.CreateCourseRequest{Code: "C1", Name: "Loop", Capacity: -1, Schedule: "Mon"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.CreateCourse(ctx, dto.CreateCourseRequest{Code: "C1", Name: "Loop", Schedule: "Mon", Prerequisites: []string{"C1"}})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.CreateStudent(ctx, dto.CreateStudentRequest{ID: "S1", Name: "Eve"})
	require.NoError(t, err)
	_, err = svc.CreateStudent(ctx, dto.CreateStudentRequest{ID: "S1", Name: "Eve"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = svc.GetStudent(ctx, "S2")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	_, err = svc.Roster(ctx, "NOPE")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
