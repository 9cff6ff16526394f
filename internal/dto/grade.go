package dto

import "github.com/noah-isme/campus-enrollment/internal/models"

// CreateGradeRequest records a letter grade for a student in a course. When
// Submit is set the grade is submitted right after creation.
type CreateGradeRequest struct {
	StudentID  string `json:"student_id" validate:"required"`
	CourseCode string `json:"-" validate:"required"`
	Letter     string `json:"letter" validate:"omitempty,grade_letter"`
	Submit     bool   `json:"submit"`
}

// SetLetterRequest replaces the letter of a pending grade.
type SetLetterRequest struct {
	Letter string `json:"letter" validate:"required,grade_letter"`
}

// GradeResult pairs a grade with the lifecycle outcome that produced it.
type GradeResult struct {
	Grade      *models.Grade             `json:"grade"`
	Transition *models.TransitionOutcome `json:"transition,omitempty"`
}
