package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-enrollment/internal/models"
)

func fixture() (*models.Student, *models.Course, map[string]*models.Course) {
	alice := models.NewStudent("S001", "Alice")
	alice.AddCompletedCourse("CS101")
	cs201 := models.NewCourse("CS201", "Algorithms", 1, "Mon9-11")
	cs201.AddPrerequisite("CS101")
	courses := map[string]*models.Course{"CS201": cs201}
	return alice, cs201, courses
}

func resolverFor(courses map[string]*models.Course) CourseResolver {
	return func(code string) (*models.Course, bool) {
		c, ok := courses[code]
		return c, ok
	}
}

func TestPrerequisiteValidator(t *testing.T) {
	alice, cs201, _ := fixture()
	assert.Nil(t, Prerequisite().Check(alice, cs201))

	bob := models.NewStudent("S002", "Bob")
	cs201.AddPrerequisite("MATH100")
	failure := Prerequisite().Check(bob, cs201)
	require.NotNil(t, failure)
	assert.Equal(t, RulePrerequisite, failure.Rule)
	assert.Equal(t, "missing prerequisite: CS101", failure.Reason)
}

func TestCapacityValidator(t *testing.T) {
	alice, cs201, _ := fixture()
	assert.Nil(t, Capacity().Check(alice, cs201))

	require.NoError(t, cs201.AddEnrollment(models.Enrollment{StudentID: "S009", CourseCode: "CS201"}))
	failure := Capacity().Check(alice, cs201)
	require.NotNil(t, failure)
	assert.Equal(t, ReasonCourseFull, failure.Reason)
}

func TestTimeConflictValidator(t *testing.T) {
	alice, cs201, courses := fixture()
	bus := models.NewCourse("BUS101", "Intro Business", 50, "Mon9-11")
	courses["BUS101"] = bus
	validator := TimeConflict(resolverFor(courses))

	assert.Nil(t, validator.Check(alice, bus))

	require.NoError(t, alice.AddEnrollment(models.Enrollment{StudentID: "S001", CourseCode: "CS201"}))
	failure := validator.Check(alice, bus)
	require.NotNil(t, failure)
	assert.Equal(t, "time conflict with CS201", failure.Reason)
	assert.Len(t, cs201.Roster(), 0, "validators must not mutate entities")
}

func TestDefaultChainOrderAndShortCircuit(t *testing.T) {
	_, cs201, courses := fixture()
	chain := DefaultChain(resolverFor(courses))
	assert.Equal(t, []string{RulePrerequisite, RuleCapacity, RuleTimeConflict}, chain.Names())

	require.NoError(t, cs201.AddEnrollment(models.Enrollment{StudentID: "S009", CourseCode: "CS201"}))
	stranger := models.NewStudent("S003", "Carol")
	failure := chain.Run(stranger, cs201)
	require.NotNil(t, failure)
	assert.Equal(t, RulePrerequisite, failure.Rule, "first failing rule wins")
}

func TestChainRunFillsRuleName(t *testing.T) {
	called := false
	chain := Chain{
		{Name: "always", Check: func(*models.Student, *models.Course) *Failure { return &Failure{Reason: "nope"} }},
		{Name: "never", Check: func(*models.Student, *models.Course) *Failure { called = true; return nil }},
	}
	failure := chain.Run(models.NewStudent("S1", "x"), models.NewCourse("C1", "y", 1, "t"))
	require.NotNil(t, failure)
	assert.Equal(t, "always", failure.Rule)
	assert.Equal(t, "always: nope", failure.Error())
	assert.False(t, called)
}
