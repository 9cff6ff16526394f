package handler

import "github.com/gin-gonic/gin"

// Handlers groups the HTTP surfaces served by the gateway.
type Handlers struct {
	Students *StudentHandler
	Faculty  *FacultyHandler
	Admin    *AdminHandler
	Metrics  *MetricsHandler
}

// RegisterOperational mounts health, readiness and metrics at the root.
func (h Handlers) RegisterOperational(r gin.IRoutes) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
}

// RegisterAPI mounts the student, faculty and admin routes on api.
func (h Handlers) RegisterAPI(api *gin.RouterGroup) {
	students := api.Group("/students")
	students.GET("/:id", h.Students.Get)
	students.POST("/:id/enrollments", h.Students.Enroll)
	students.DELETE("/:id/enrollments/:courseId", h.Students.Drop)

	courses := api.Group("/courses")
	courses.GET("/:code/roster", h.Faculty.Roster)
	courses.GET("/:code/grades", h.Faculty.ListGrades)
	courses.POST("/:code/grades", h.Faculty.CreateGrade)

	grades := api.Group("/grades")
	grades.GET("/:id", h.Faculty.GetGrade)
	grades.POST("/:id/submit", h.Faculty.SubmitGrade)
	grades.POST("/:id/approve", h.Faculty.ApproveGrade)
	grades.PUT("/:id/letter", h.Faculty.SetLetter)

	admin := api.Group("/admin")
	admin.POST("/students", h.Admin.CreateStudent)
	admin.POST("/students/:id/completed-courses", h.Admin.AddCompletedCourse)
	admin.POST("/courses", h.Admin.CreateCourse)
	admin.PUT("/courses/:code/capacity", h.Admin.UpdateCapacity)
	admin.POST("/courses/:code/students/:id", h.Admin.ForceAdd)
	admin.GET("/reports/enrollments", h.Admin.EnrollmentReport)
}
