package service

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-enrollment/internal/models"
	"github.com/noah-isme/campus-enrollment/internal/repository"
	"github.com/noah-isme/campus-enrollment/internal/validation"
	appErrors "github.com/noah-isme/campus-enrollment/pkg/errors"
	"github.com/noah-isme/campus-enrollment/pkg/eventbus"
)

type publishedEvent struct {
	Topic   string
	Message string
}

type eventRecorder struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (r *eventRecorder) Notify(topic, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, publishedEvent{Topic: topic, Message: message})
}

func (r *eventRecorder) topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Topic)
	}
	return out
}

func (r *eventRecorder) reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

type coordinatorFixture struct {
	catalog     *repository.CatalogRepository
	bus         *eventbus.Bus
	events      *eventRecorder
	coordinator *EnrollmentCoordinator
}

func newCoordinatorFixture(t *testing.T) *coordinatorFixture {
	t.Helper()
	catalog := repository.NewCatalogRepository()

	alice := models.NewStudent("S001", "Alice")
	alice.AddCompletedCourse("CS101")
	bob := models.NewStudent("S002", "Bob")
	bob.AddCompletedCourse("CS101")
	carol := models.NewStudent("S003", "Carol")
	require.NoError(t, catalog.CreateStudent(alice))
	require.NoError(t, catalog.CreateStudent(bob))
	require.NoError(t, catalog.CreateStudent(carol))

	cs201 := models.NewCourse("CS201", "Algorithms", 1, "Mon9-11")
	cs201.AddPrerequisite("CS101")
	require.NoError(t, catalog.CreateCourse(cs201))
	require.NoError(t, catalog.CreateCourse(models.NewCourse("BUS101", "Intro Business", 50, "Tue10-12")))
	require.NoError(t, catalog.CreateCourse(models.NewCourse("MATH110", "Discrete Math", 50, "Mon9-11")))

	bus := eventbus.New(zap.NewNop())
	events := &eventRecorder{}
	bus.Subscribe(events)

	return &coordinatorFixture{
		catalog:     catalog,
		bus:         bus,
		events:      events,
		coordinator: NewEnrollmentCoordinator(catalog, nil, bus, NewMetricsService(), zap.NewNop()),
	}
}

func (f *coordinatorFixture) rosterSize(t *testing.T, code string) int {
	t.Helper()
	course, err := f.catalog.FindCourse(code)
	require.NoError(t, err)
	return course.Enrolled()
}

func (f *coordinatorFixture) studentCourses(t *testing.T, id string) []string {
	t.Helper()
	student, err := f.catalog.FindStudent(id)
	require.NoError(t, err)
	return student.View().Enrollments
}

func TestEnrollDropScenario(t *testing.T) {
	f := newCoordinatorFixture(t)

	decision, err := f.coordinator.Enroll("S001", "CS201")
	require.NoError(t, err)
	assert.True(t, decision.Accepted)
	assert.Equal(t, 1, f.rosterSize(t, "CS201"))
	assert.Equal(t, []string{"CS201"}, f.studentCourses(t, "S001"))

	decision, err = f.coordinator.Enroll("S002", "CS201")
	require.NoError(t, err)
	assert.False(t, decision.Accepted)
	assert.Equal(t, validation.RuleCapacity, decision.Rule)
	assert.Equal(t, "course is full", decision.Reason)
	assert.Equal(t, 1, f.rosterSize(t, "CS201"))
	assert.Empty(t, f.studentCourses(t, "S002"))

	f.events.reset()
	dropped, err := f.coordinator.Drop("S001", "CS201")
	require.NoError(t, err)
	assert.True(t, dropped)
	assert.Equal(t, []string{models.TopicDrop, models.TopicWaitlist}, f.events.topics())
	assert.Equal(t, 0, f.rosterSize(t, "CS201"))

	decision, err = f.coordinator.Enroll("S002", "CS201")
	require.NoError(t, err)
	assert.True(t, decision.Accepted)
	assert.Equal(t, 1, decision.Enrolled)
}

func TestEnrollPublishesEnrollmentEvent(t *testing.T) {
	f := newCoordinatorFixture(t)

	_, err := f.coordinator.Enroll("S001", "BUS101")
	require.NoError(t, err)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, publishedEvent{Topic: "enrollment", Message: "Student S001 enrolled in BUS101"}, f.events.events[0])
}

func TestEnrollRejectionLeavesStateAndPublishesNothing(t *testing.T) {
	f := newCoordinatorFixture(t)

	decision, err := f.coordinator.Enroll("S003", "CS201")
	require.NoError(t, err)
	assert.False(t, decision.Accepted)
	assert.Equal(t, validation.RulePrerequisite, decision.Rule)
	assert.Equal(t, "missing prerequisite: CS101", decision.Reason)
	assert.Equal(t, 0, f.rosterSize(t, "CS201"))
	assert.Empty(t, f.events.topics())
}

func TestEnrollTimeConflict(t *testing.T) {
	f := newCoordinatorFixture(t)
	_, err := f.coordinator.Enroll("S001", "CS201")
	require.NoError(t, err)

	decision, err := f.coordinator.Enroll("S001", "MATH110")
	require.NoError(t, err)
	assert.False(t, decision.Accepted)
	assert.Equal(t, "time conflict with CS201", decision.Reason)
	assert.Equal(t, []string{"CS201"}, f.studentCourses(t, "S001"))
}

func TestEnrollUnknownEntities(t *testing.T) {
	f := newCoordinatorFixture(t)
	_, err := f.coordinator.Enroll("S404", "CS201")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = f.coordinator.Drop("S001", "NOPE")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestDropTwiceReturnsFalseSecondTime(t *testing.T) {
	f := newCoordinatorFixture(t)
	_, err := f.coordinator.Enroll("S001", "BUS101")
	require.NoError(t, err)

	first, err := f.coordinator.Drop("S001", "BUS101")
	require.NoError(t, err)
	f.events.reset()
	second, err := f.coordinator.Drop("S001", "BUS101")
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	assert.Empty(t, f.events.topics())
}

func TestForceAddBypassesValidators(t *testing.T) {
	f := newCoordinatorFixture(t)
	_, err := f.coordinator.Enroll("S001", "CS201")
	require.NoError(t, err)

	decision, err := f.coordinator.ForceAdd("S003", "CS201")
	require.NoError(t, err)
	assert.True(t, decision.Accepted)
	assert.True(t, decision.Override)
	assert.Equal(t, 2, decision.Enrolled)
	assert.Equal(t, 1, decision.Capacity)
	assert.Equal(t, []string{"CS201"}, f.studentCourses(t, "S003"))

	_, err = f.coordinator.ForceAdd("S003", "CS201")
	assert.True(t, errors.Is(err, appErrors.ErrAlreadyEnrolled))
	assert.Equal(t, 2, f.rosterSize(t, "CS201"))
}

func TestForceAddRollsBackRosterWhenStudentSideFails(t *testing.T) {
	f := newCoordinatorFixture(t)
	// Corrupt the student side only, so the second append fails.
	err := f.catalog.Mutate("S002", "BUS101", func(_ repository.CatalogTx, s *models.Student, _ *models.Course) error {
		return s.AddEnrollment(models.Enrollment{StudentID: "S002", CourseCode: "BUS101"})
	})
	require.NoError(t, err)

	_, err = f.coordinator.ForceAdd("S002", "BUS101")
	require.Error(t, err)
	assert.Equal(t, 0, f.rosterSize(t, "BUS101"))
	assert.Empty(t, f.events.topics())
}

func TestUpdateCapacity(t *testing.T) {
	f := newCoordinatorFixture(t)
	view, err := f.coordinator.UpdateCapacity("CS201", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Capacity)
	assert.Equal(t, []string{models.TopicCapacity}, f.events.topics())

	_, err = f.coordinator.UpdateCapacity("CS201", -1)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = f.coordinator.UpdateCapacity("NOPE", 1)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestConcurrentEnrollRespectsCapacity(t *testing.T) {
	catalog := repository.NewCatalogRepository()
	const students = 40
	const capacity = 7
	require.NoError(t, catalog.CreateCourse(models.NewCourse("HIST200", "World History", capacity, "Fri8-10")))
	for i := 0; i < students; i++ {
		require.NoError(t, catalog.CreateStudent(models.NewStudent(fmt.Sprintf("S%03d", i), "student")))
	}
	coordinator := NewEnrollmentCoordinator(catalog, nil, eventbus.New(nil), nil, nil)

	var accepted int32
	var wg sync.WaitGroup
	for i := 0; i < students; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			decision, err := coordinator.Enroll(id, "HIST200")
			if err == nil && decision.Accepted {
				atomic.AddInt32(&accepted, 1)
			}
		}(fmt.Sprintf("S%03d", i))
	}
	wg.Wait()

	course, err := catalog.FindCourse("HIST200")
	require.NoError(t, err)
	assert.Equal(t, int32(capacity), atomic.LoadInt32(&accepted))
	assert.Equal(t, capacity, course.Enrolled())

	enrolledStudents := 0
	for _, s := range catalog.ListStudents() {
		enrolledStudents += len(s.Enrollments())
	}
	assert.Equal(t, capacity, enrolledStudents)
}

func TestEnrollUsesInjectedChain(t *testing.T) {
	f := newCoordinatorFixture(t)
	calls := 0
	chain := func(validation.CourseResolver) validation.Chain {
		return validation.Chain{{Name: "closed", Check: func(*models.Student, *models.Course) *validation.Failure {
			calls++
			return &validation.Failure{Reason: "registration closed"}
		}}}
	}
	coordinator := NewEnrollmentCoordinator(f.catalog, chain, f.bus, nil, nil)

	decision, err := coordinator.Enroll("S001", "BUS101")
	require.NoError(t, err)
	assert.False(t, decision.Accepted)
	assert.Equal(t, "closed", decision.Rule)
	assert.Equal(t, 1, calls)
}
