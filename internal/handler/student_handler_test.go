package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-enrollment/internal/models"
	"github.com/noah-isme/campus-enrollment/internal/service"
	appErrors "github.com/noah-isme/campus-enrollment/pkg/errors"
)

type coordinatorMock struct {
	decision    *service.EnrollmentDecision
	dropped     bool
	course      *models.CourseView
	err         error
	lastStudent string
	lastCourse  string
	lastCap     int
}

func (m *coordinatorMock) Enroll(studentID, courseCode string) (*service.EnrollmentDecision, error) {
	m.lastStudent, m.lastCourse = studentID, courseCode
	return m.decision, m.err
}

func (m *coordinatorMock) Drop(studentID, courseCode string) (bool, error) {
	m.lastStudent, m.lastCourse = studentID, courseCode
	return m.dropped, m.err
}

func (m *coordinatorMock) ForceAdd(studentID, courseCode string) (*service.EnrollmentDecision, error) {
	m.lastStudent, m.lastCourse = studentID, courseCode
	return m.decision, m.err
}

func (m *coordinatorMock) UpdateCapacity(courseCode string, capacity int) (*models.CourseView, error) {
	m.lastCourse, m.lastCap = courseCode, capacity
	return m.course, m.err
}

type studentReaderMock struct {
	view *models.StudentView
	err  error
}

func (m *studentReaderMock) GetStudent(context.Context, string) (*models.StudentView, error) {
	return m.view, m.err
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

type envelope struct {
	Data  json.RawMessage  `json:"data"`
	Error *appErrors.Error `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestStudentHandlerEnrollAccepted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &coordinatorMock{decision: &service.EnrollmentDecision{StudentID: "S001", CourseCode: "CS201", Accepted: true, Enrolled: 1, Capacity: 2}}
	h := NewStudentHandler(mock, &studentReaderMock{}, nil)

	c, w := newGinContext(http.MethodPost, "/students/S001/enrollments", []byte(`{"course_id":"CS201"}`))
	c.Params = gin.Params{{Key: "id", Value: "S001"}}
	h.Enroll(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "S001", mock.lastStudent)
	assert.Equal(t, "CS201", mock.lastCourse)
}

func TestStudentHandlerEnrollRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &coordinatorMock{decision: &service.EnrollmentDecision{StudentID: "S002", CourseCode: "CS201", Rule: "capacity", Reason: "course is full"}}
	h := NewStudentHandler(mock, &studentReaderMock{}, nil)

	c, w := newGinContext(http.MethodPost, "/students/S002/enrollments", []byte(`{"course_id":"CS201"}`))
	c.Params = gin.Params{{Key: "id", Value: "S002"}}
	h.Enroll(c)

	require.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ENROLLMENT_REJECTED", env.Error.Code)
	assert.Equal(t, "course is full", env.Error.Message)
	assert.Contains(t, string(env.Data), `"rule":"capacity"`)
}

func TestStudentHandlerEnrollValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewStudentHandler(&coordinatorMock{}, &studentReaderMock{}, nil)

	for _, body := range []string{`{}`, `not json`} {
		c, w := newGinContext(http.MethodPost, "/students/S001/enrollments", []byte(body))
		c.Params = gin.Params{{Key: "id", Value: "S001"}}
		h.Enroll(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestStudentHandlerEnrollNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewStudentHandler(&coordinatorMock{err: appErrors.Clone(appErrors.ErrNotFound, "student S9: record not found")}, &studentReaderMock{}, nil)

	c, w := newGinContext(http.MethodPost, "/students/S9/enrollments", []byte(`{"course_id":"CS201"}`))
	c.Params = gin.Params{{Key: "id", Value: "S9"}}
	h.Enroll(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStudentHandlerDrop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &coordinatorMock{dropped: true}
	h := NewStudentHandler(mock, &studentReaderMock{}, nil)

	c, w := newGinContext(http.MethodDelete, "/students/S001/enrollments/CS201", nil)
	c.Params = gin.Params{{Key: "id", Value: "S001"}, {Key: "courseId", Value: "CS201"}}
	h.Drop(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"dropped":true`)

	mock.dropped = false
	c, w = newGinContext(http.MethodDelete, "/students/S001/enrollments/CS201", nil)
	c.Params = gin.Params{{Key: "id", Value: "S001"}, {Key: "courseId", Value: "CS201"}}
	h.Drop(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "NOT_ENROLLED", decodeEnvelope(t, w).Error.Code)
}

func TestStudentHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewStudentHandler(&coordinatorMock{}, &studentReaderMock{view: &models.StudentView{ID: "S001", Name: "Alice"}}, nil)

	c, w := newGinContext(http.MethodGet, "/students/S001", nil)
	c.Params = gin.Params{{Key: "id", Value: "S001"}}
	h.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Alice"`)
}
