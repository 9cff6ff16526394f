package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-enrollment/internal/models"
	"github.com/noah-isme/campus-enrollment/internal/repository"
	"github.com/noah-isme/campus-enrollment/internal/service"
	"github.com/noah-isme/campus-enrollment/pkg/eventbus"
)

func buildRouter(t *testing.T) (*gin.Engine, *[]string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	validate := validator.New()

	catalog := repository.NewCatalogRepository()
	require.NoError(t, repository.SeedSampleData(catalog))
	bus := eventbus.New(logger)
	var topics []string
	bus.SubscribeFunc(func(topic, _ string) { topics = append(topics, topic) })

	metrics := service.NewMetricsService()
	coordinator := service.NewEnrollmentCoordinator(catalog, nil, bus, metrics, logger)
	catalogSvc := service.NewCatalogService(catalog, validate, logger)
	grades := service.NewGradeService(repository.NewGradeRepository(), catalog, bus, metrics, validate, logger)
	reports := service.NewReportService(catalog, nil, logger)

	handlers := Handlers{
		Students: NewStudentHandler(coordinator, catalogSvc, validate),
		Faculty:  NewFacultyHandler(catalogSvc, grades),
		Admin:    NewAdminHandler(coordinator, catalogSvc, reports, validate),
		Metrics:  NewMetricsHandler(metrics, nil),
	}
	r := gin.New()
	handlers.RegisterOperational(r)
	handlers.RegisterAPI(r.Group("/api/v1"))
	return r, &topics
}

func performRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEnrollmentRoutesIntegration(t *testing.T) {
	router, topics := buildRouter(t)

	resp := performRequest(router, http.MethodPut, "/api/v1/admin/courses/CS201/capacity", `{"capacity":1}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = performRequest(router, http.MethodPost, "/api/v1/students/S001/enrollments", `{"course_id":"CS201"}`)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = performRequest(router, http.MethodPost, "/api/v1/students/S002/enrollments", `{"course_id":"CS201"}`)
	require.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "course is full")

	resp = performRequest(router, http.MethodGet, "/api/v1/courses/CS201/roster", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"name":"Alice"`)

	resp = performRequest(router, http.MethodDelete, "/api/v1/students/S001/enrollments/CS201", "")
	require.Equal(t, http.StatusOK, resp.Code)
	resp = performRequest(router, http.MethodDelete, "/api/v1/students/S001/enrollments/CS201", "")
	require.Equal(t, http.StatusConflict, resp.Code)

	resp = performRequest(router, http.MethodPost, "/api/v1/admin/courses/CS201/students/S002", "")
	require.Equal(t, http.StatusCreated, resp.Code)
	resp = performRequest(router, http.MethodPost, "/api/v1/admin/courses/CS201/students/S001", "")
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Contains(t, resp.Body.String(), `"enrolled":2`)

	assert.Equal(t, []string{
		models.TopicCapacity,
		models.TopicEnrollment,
		models.TopicDrop,
		models.TopicWaitlist,
		models.TopicEnrollment,
		models.TopicEnrollment,
	}, *topics)

	resp = performRequest(router, http.MethodGet, "/api/v1/admin/reports/enrollments", "")
	require.Equal(t, http.StatusOK, resp.Code)
	var report models.EnrollmentReport
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &report))
	assert.Equal(t, "enrollment", report.Report)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, models.EnrollmentReportRow{Course: "CS201", Name: "Algorithms", Enrolled: 2, Capacity: 1}, report.Rows[1])

	resp = performRequest(router, http.MethodGet, "/api/v1/admin/reports/enrollments?format=csv", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, strings.HasPrefix(resp.Body.String(), "Course,Enrolled,Capacity\n"))
	assert.Contains(t, resp.Header().Get("Content-Disposition"), ".csv")

	resp = performRequest(router, http.MethodGet, "/api/v1/admin/reports/enrollments?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGradeRoutesIntegration(t *testing.T) {
	router, _ := buildRouter(t)

	resp := performRequest(router, http.MethodPost, "/api/v1/courses/CS201/grades", `{"student_id":"S001","letter":"B"}`)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var created struct {
		Data struct {
			Grade models.Grade `json:"grade"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	id := created.Data.Grade.ID
	require.NotEmpty(t, id)

	resp = performRequest(router, http.MethodPut, "/api/v1/grades/"+id+"/letter", `{"letter":"A"}`)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = performRequest(router, http.MethodPost, "/api/v1/grades/"+id+"/approve", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"applied":false`)

	resp = performRequest(router, http.MethodPost, "/api/v1/grades/"+id+"/submit", "")
	require.Equal(t, http.StatusOK, resp.Code)
	resp = performRequest(router, http.MethodPost, "/api/v1/grades/"+id+"/approve", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"state":"Final"`)

	resp = performRequest(router, http.MethodPut, "/api/v1/grades/"+id+"/letter", `{"letter":"C"}`)
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = performRequest(router, http.MethodPost, "/api/v1/courses/CS201/grades", `{"student_id":"S001","letter":"Z"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = performRequest(router, http.MethodGet, "/api/v1/courses/CS201/grades", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"total":1`)
}

func TestOperationalRoutes(t *testing.T) {
	router, _ := buildRouter(t)

	assert.Equal(t, http.StatusOK, performRequest(router, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, performRequest(router, http.MethodGet, "/ready", "").Code)

	performRequest(router, http.MethodPost, "/api/v1/students/S001/enrollments", `{"course_id":"BUS101"}`)
	resp := performRequest(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "enrollment_attempts_total")
}
