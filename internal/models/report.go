package models

import "time"

// EnrollmentReportRow summarises seat usage for one course.
type EnrollmentReportRow struct {
	Course   string `json:"course"`
	Name     string `json:"name"`
	Enrolled int    `json:"enrolled"`
	Capacity int    `json:"capacity"`
}

// EnrollmentReport is the admin seat usage report.
type EnrollmentReport struct {
	Report      string                `json:"report"`
	GeneratedAt time.Time             `json:"generated_at"`
	Rows        []EnrollmentReportRow `json:"data"`
}
