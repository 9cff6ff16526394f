package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/campus-enrollment/internal/dto"
	"github.com/noah-isme/campus-enrollment/internal/models"
	"github.com/noah-isme/campus-enrollment/internal/service"
	appErrors "github.com/noah-isme/campus-enrollment/pkg/errors"
	"github.com/noah-isme/campus-enrollment/pkg/response"
)

type enrollmentCoordinator interface {
	Enroll(studentID, courseCode string) (*service.EnrollmentDecision, error)
	Drop(studentID, courseCode string) (bool, error)
	ForceAdd(studentID, courseCode string) (*service.EnrollmentDecision, error)
	UpdateCapacity(courseCode string, capacity int) (*models.CourseView, error)
}

type studentReader interface {
	GetStudent(ctx context.Context, id string) (*models.StudentView, error)
}

// StudentHandler exposes the student self-service endpoints.
type StudentHandler struct {
	enrollments enrollmentCoordinator
	students    studentReader
	validator   *validator.Validate
}

// NewStudentHandler constructs handler.
func NewStudentHandler(enrollments enrollmentCoordinator, students studentReader, validate *validator.Validate) *StudentHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &StudentHandler{enrollments: enrollments, students: students, validator: validate}
}

// Get godoc
// @Summary Get student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Enroll godoc
// @Summary Enroll student in a course
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.EnrollRequest true "Course to enroll in"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students/{id}/enrollments [post]
func (h *StudentHandler) Enroll(c *gin.Context) {
	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "course_id is required"))
		return
	}
	decision, err := h.enrollments.Enroll(c.Param("id"), req.CourseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !decision.Accepted {
		response.Rejected(c, appErrors.Clone(appErrors.ErrEnrollmentRejected, decision.Reason), decision)
		return
	}
	response.Created(c, decision)
}

// Drop godoc
// @Summary Drop an enrollment
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Param courseId path string true "Course code"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students/{id}/enrollments/{courseId} [delete]
func (h *StudentHandler) Drop(c *gin.Context) {
	result := dto.DropResponse{StudentID: c.Param("id"), CourseCode: c.Param("courseId")}
	dropped, err := h.enrollments.Drop(result.StudentID, result.CourseCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !dropped {
		response.Rejected(c, appErrors.ErrNotEnrolled, result)
		return
	}
	result.Dropped = true
	response.JSON(c, http.StatusOK, result)
}
