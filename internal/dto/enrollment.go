package dto

// EnrollRequest is the student-side enrollment payload.
type EnrollRequest struct {
	CourseID string `json:"course_id" validate:"required"`
}

// UpdateCapacityRequest overrides a course's seat limit.
type UpdateCapacityRequest struct {
	Capacity *int `json:"capacity" validate:"required,min=0"`
}

// CreateStudentRequest registers a student in the catalog.
type CreateStudentRequest struct {
	ID               string   `json:"id" validate:"required"`
	Name             string   `json:"name" validate:"required"`
	CompletedCourses []string `json:"completed_courses" validate:"omitempty,dive,required"`
}

// CreateCourseRequest registers a course in the catalog.
type CreateCourseRequest struct {
	Code          string   `json:"code" validate:"required"`
	Name          string   `json:"name" validate:"required"`
	Capacity      int      `json:"capacity" validate:"min=0"`
	Schedule      string   `json:"schedule" validate:"required"`
	Prerequisites []string `json:"prerequisites" validate:"omitempty,dive,required"`
}

// CompletedCourseRequest records a course a student has passed.
type CompletedCourseRequest struct {
	CourseCode string `json:"course_code" validate:"required"`
}

// DropResponse reports the result of a drop request.
type DropResponse struct {
	StudentID  string `json:"student_id"`
	CourseCode string `json:"course_code"`
	Dropped    bool   `json:"dropped"`
}
