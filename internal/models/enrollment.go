package models

import "fmt"

// Enrollment links one student to one course. It carries identifiers only;
// the catalog owns the entities they point to.
type Enrollment struct {
	StudentID  string `json:"student_id"`
	CourseCode string `json:"course_code"`
}

// String renders the enrollment for log output.
func (e Enrollment) String() string {
	return fmt.Sprintf("Enrollment[%s->%s]", e.StudentID, e.CourseCode)
}

func indexOf(list []Enrollment, e Enrollment) int {
	for i, existing := range list {
		if existing == e {
			return i
		}
	}
	return -1
}

func removeAt(list []Enrollment, idx int) []Enrollment {
	out := make([]Enrollment, 0, len(list)-1)
	out = append(out, list[:idx]...)
	return append(out, list[idx+1:]...)
}
