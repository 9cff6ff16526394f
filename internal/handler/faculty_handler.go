package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-enrollment/internal/dto"
	"github.com/noah-isme/campus-enrollment/internal/models"
	appErrors "github.com/noah-isme/campus-enrollment/pkg/errors"
	"github.com/noah-isme/campus-enrollment/pkg/response"
)

type rosterReader interface {
	Roster(ctx context.Context, code string) (*models.CourseRoster, error)
}

type gradeService interface {
	Create(ctx context.Context, req dto.CreateGradeRequest) (*dto.GradeResult, error)
	Submit(ctx context.Context, id string) (*dto.GradeResult, error)
	Approve(ctx context.Context, id string) (*dto.GradeResult, error)
	SetLetter(ctx context.Context, id string, req dto.SetLetterRequest) (*models.Grade, error)
	Get(ctx context.Context, id string) (*models.Grade, error)
	ListByCourse(ctx context.Context, courseCode string) ([]models.Grade, error)
}

// FacultyHandler exposes rosters and the grading workflow.
type FacultyHandler struct {
	rosters rosterReader
	grades  gradeService
}

// NewFacultyHandler constructs handler.
func NewFacultyHandler(rosters rosterReader, grades gradeService) *FacultyHandler {
	return &FacultyHandler{rosters: rosters, grades: grades}
}

// Roster godoc
// @Summary Course roster
// @Tags Faculty
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /courses/{code}/roster [get]
func (h *FacultyHandler) Roster(c *gin.Context) {
	roster, err := h.rosters.Roster(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster)
}

// CreateGrade godoc
// @Summary Record a grade
// @Tags Faculty
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param payload body dto.CreateGradeRequest true "Grade payload"
// @Success 201 {object} response.Envelope
// @Router /courses/{code}/grades [post]
func (h *FacultyHandler) CreateGrade(c *gin.Context) {
	var req dto.CreateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.CourseCode = c.Param("code")
	result, err := h.grades.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListGrades godoc
// @Summary List grades of a course
// @Tags Faculty
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /courses/{code}/grades [get]
func (h *FacultyHandler) ListGrades(c *gin.Context) {
	grades, err := h.grades.ListByCourse(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, map[string]interface{}{"total": len(grades)})
}

// GetGrade godoc
// @Summary Get grade
// @Tags Faculty
// @Produce json
// @Param id path string true "Grade ID"
// @Success 200 {object} response.Envelope
// @Router /grades/{id} [get]
func (h *FacultyHandler) GetGrade(c *gin.Context) {
	grade, err := h.grades.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade)
}

// SubmitGrade godoc
// @Summary Submit a pending grade
// @Description An ignored transition still returns 200; the transition block explains why.
// @Tags Faculty
// @Produce json
// @Param id path string true "Grade ID"
// @Success 200 {object} response.Envelope
// @Router /grades/{id}/submit [post]
func (h *FacultyHandler) SubmitGrade(c *gin.Context) {
	h.transition(c, h.grades.Submit)
}

// ApproveGrade godoc
// @Summary Approve a submitted grade
// @Tags Faculty
// @Produce json
// @Param id path string true "Grade ID"
// @Success 200 {object} response.Envelope
// @Router /grades/{id}/approve [post]
func (h *FacultyHandler) ApproveGrade(c *gin.Context) {
	h.transition(c, h.grades.Approve)
}

// SetLetter godoc
// @Summary Change the letter of a pending grade
// @Tags Faculty
// @Accept json
// @Produce json
// @Param id path string true "Grade ID"
// @Param payload body dto.SetLetterRequest true "Letter"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /grades/{id}/letter [put]
func (h *FacultyHandler) SetLetter(c *gin.Context) {
	var req dto.SetLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	grade, err := h.grades.SetLetter(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade)
}

func (h *FacultyHandler) transition(c *gin.Context, op func(ctx context.Context, id string) (*dto.GradeResult, error)) {
	result, err := op(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
