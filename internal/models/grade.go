package models

import (
	"fmt"
	"time"
)

// GradeState is the lifecycle position of a grade record.
type GradeState string

// Grade lifecycle states. Final is terminal.
const (
	GradeStatePending   GradeState = "Pending"
	GradeStateSubmitted GradeState = "Submitted"
	GradeStateFinal     GradeState = "Final"
)

// GradeOperation is a lifecycle request made against a grade.
type GradeOperation string

// Supported lifecycle operations.
const (
	GradeOpSubmit  GradeOperation = "submit"
	GradeOpApprove GradeOperation = "approve"
)

// TransitionOutcome reports what a lifecycle operation did. A rejected
// operation leaves the state unchanged and explains why in Message.
type TransitionOutcome struct {
	Operation GradeOperation `json:"operation"`
	From      GradeState     `json:"from"`
	To        GradeState     `json:"to"`
	Applied   bool           `json:"applied"`
	Message   string         `json:"message"`
}

// NextGradeState applies op to current. There are no backward transitions;
// a corrected grade is a new record.
func NextGradeState(current GradeState, op GradeOperation) (GradeState, TransitionOutcome) {
	outcome := TransitionOutcome{Operation: op, From: current, To: current}
	reject := func(msg string) (GradeState, TransitionOutcome) {
		outcome.Message = msg
		return current, outcome
	}
	advance := func(next GradeState) (GradeState, TransitionOutcome) {
		outcome.To = next
		outcome.Applied = true
		outcome.Message = fmt.Sprintf("%s -> %s", current, next)
		return next, outcome
	}

	switch op {
	case GradeOpSubmit:
		switch current {
		case GradeStatePending:
			return advance(GradeStateSubmitted)
		case GradeStateSubmitted:
			return reject("already submitted")
		case GradeStateFinal:
			return reject("cannot submit, final")
		}
	case GradeOpApprove:
		switch current {
		case GradeStatePending:
			return reject("still pending")
		case GradeStateSubmitted:
			return advance(GradeStateFinal)
		case GradeStateFinal:
			return reject("already final")
		}
	default:
		return reject(fmt.Sprintf("unknown operation %q", op))
	}
	return reject(fmt.Sprintf("unknown state %q", current))
}

// Grade is a letter grade for one student in one course.
type Grade struct {
	ID         string     `json:"id"`
	StudentID  string     `json:"student_id"`
	CourseCode string     `json:"course_code"`
	Letter     string     `json:"letter,omitempty"`
	State      GradeState `json:"state"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewGrade creates a grade in the Pending state.
func NewGrade(id, studentID, courseCode string) *Grade {
	now := time.Now().UTC()
	return &Grade{ID: id, StudentID: studentID, CourseCode: courseCode, State: GradeStatePending, CreatedAt: now, UpdatedAt: now}
}

// Submit moves a pending grade to Submitted.
func (g *Grade) Submit() TransitionOutcome {
	return g.apply(GradeOpSubmit)
}

// Approve moves a submitted grade to Final.
func (g *Grade) Approve() TransitionOutcome {
	return g.apply(GradeOpApprove)
}

// StateName returns the current lifecycle state name.
func (g *Grade) StateName() string {
	return string(g.State)
}

func (g *Grade) apply(op GradeOperation) TransitionOutcome {
	next, outcome := NextGradeState(g.State, op)
	if outcome.Applied {
		g.State = next
		g.UpdatedAt = time.Now().UTC()
	}
	return outcome
}

// String renders the grade for log output.
func (g *Grade) String() string {
	return fmt.Sprintf("Grade[%s:%s=%s (%s)]", g.StudentID, g.CourseCode, g.Letter, g.State)
}
