package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/campus-enrollment/internal/dto"
	"github.com/noah-isme/campus-enrollment/internal/models"
	"github.com/noah-isme/campus-enrollment/internal/service"
	appErrors "github.com/noah-isme/campus-enrollment/pkg/errors"
	"github.com/noah-isme/campus-enrollment/pkg/response"
)

type catalogAdmin interface {
	CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*models.StudentView, error)
	CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*models.CourseView, error)
	AddCompletedCourse(ctx context.Context, studentID string, req dto.CompletedCourseRequest) (*models.StudentView, error)
}

type enrollmentReporter interface {
	Enrollment(ctx context.Context) (*models.EnrollmentReport, error)
	Export(ctx context.Context, format string) (*service.ReportFile, error)
}

// AdminHandler exposes registrar operations.
type AdminHandler struct {
	enrollments enrollmentCoordinator
	catalog     catalogAdmin
	reports     enrollmentReporter
	validator   *validator.Validate
}

// NewAdminHandler constructs handler.
func NewAdminHandler(enrollments enrollmentCoordinator, catalog catalogAdmin, reports enrollmentReporter, validate *validator.Validate) *AdminHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &AdminHandler{enrollments: enrollments, catalog: catalog, reports: reports, validator: validate}
}

// ForceAdd godoc
// @Summary Enroll a student bypassing every rule
// @Tags Admin
// @Produce json
// @Param code path string true "Course code"
// @Param id path string true "Student ID"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/courses/{code}/students/{id} [post]
func (h *AdminHandler) ForceAdd(c *gin.Context) {
	decision, err := h.enrollments.ForceAdd(c.Param("id"), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, decision)
}

// UpdateCapacity godoc
// @Summary Override course capacity
// @Tags Admin
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param payload body dto.UpdateCapacityRequest true "New capacity"
// @Success 200 {object} response.Envelope
// @Router /admin/courses/{code}/capacity [put]
func (h *AdminHandler) UpdateCapacity(c *gin.Context) {
	var req dto.UpdateCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "capacity must be a non-negative integer"))
		return
	}
	course, err := h.enrollments.UpdateCapacity(c.Param("code"), *req.Capacity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// CreateStudent godoc
// @Summary Register a student
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.CreateStudentRequest true "Student"
// @Success 201 {object} response.Envelope
// @Router /admin/students [post]
func (h *AdminHandler) CreateStudent(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.catalog.CreateStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// CreateCourse godoc
// @Summary Register a course
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.CreateCourseRequest true "Course"
// @Success 201 {object} response.Envelope
// @Router /admin/courses [post]
func (h *AdminHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.catalog.CreateCourse(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// AddCompletedCourse godoc
// @Summary Record a completed course
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.CompletedCourseRequest true "Course"
// @Success 200 {object} response.Envelope
// @Router /admin/students/{id}/completed-courses [post]
func (h *AdminHandler) AddCompletedCourse(c *gin.Context) {
	var req dto.CompletedCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.catalog.AddCompletedCourse(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// EnrollmentReport godoc
// @Summary Seat usage per course
// @Tags Admin
// @Produce json
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "json (default), csv or pdf"
// @Success 200 {object} response.Envelope
// @Router /admin/reports/enrollments [get]
func (h *AdminHandler) EnrollmentReport(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "json"))
	if format == "json" {
		report, err := h.reports.Enrollment(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, report)
		return
	}

	file, err := h.reports.Export(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Body)
}
