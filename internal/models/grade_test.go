package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextGradeStateTable(t *testing.T) {
	cases := []struct {
		state   GradeState
		op      GradeOperation
		want    GradeState
		applied bool
		message string
	}{
		{GradeStatePending, GradeOpSubmit, GradeStateSubmitted, true, "Pending -> Submitted"},
		{GradeStatePending, GradeOpApprove, GradeStatePending, false, "still pending"},
		{GradeStateSubmitted, GradeOpSubmit, GradeStateSubmitted, false, "already submitted"},
		{GradeStateSubmitted, GradeOpApprove, GradeStateFinal, true, "Submitted -> Final"},
		{GradeStateFinal, GradeOpSubmit, GradeStateFinal, false, "cannot submit, final"},
		{GradeStateFinal, GradeOpApprove, GradeStateFinal, false, "already final"},
	}
	for _, tc := range cases {
		t.Run(string(tc.state)+"/"+string(tc.op), func(t *testing.T) {
			next, outcome := NextGradeState(tc.state, tc.op)
			assert.Equal(t, tc.want, next)
			assert.Equal(t, tc.applied, outcome.Applied)
			assert.Equal(t, tc.message, outcome.Message)
			assert.Equal(t, tc.state, outcome.From)
			assert.Equal(t, tc.want, outcome.To)
		})
	}
}

func TestNextGradeStateUnknownOperation(t *testing.T) {
	next, outcome := NextGradeState(GradeStateSubmitted, GradeOperation("reopen"))
	assert.Equal(t, GradeStateSubmitted, next)
	assert.False(t, outcome.Applied)
}

func TestGradeLifecycle(t *testing.T) {
	g := NewGrade("g-1", "S002", "CS201")
	g.Letter = "A"
	require.Equal(t, "Pending", g.StateName())

	assert.True(t, g.Submit().Applied)
	assert.Equal(t, "Submitted", g.StateName())

	assert.True(t, g.Approve().Applied)
	assert.Equal(t, "Final", g.StateName())

	outcome := g.Submit()
	assert.False(t, outcome.Applied)
	assert.Equal(t, "Final", g.StateName())
}

func TestGradeApproveWhilePendingIsNoop(t *testing.T) {
	g := NewGrade("g-2", "S001", "CS201")
	before := g.UpdatedAt
	outcome := g.Approve()
	assert.False(t, outcome.Applied)
	assert.Equal(t, GradeStatePending, g.State)
	assert.Equal(t, before, g.UpdatedAt)
}
