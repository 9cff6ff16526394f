package models

// Event bus topics published by the enrollment and grade workflows.
const (
	TopicEnrollment = "enrollment"
	TopicDrop       = "drop"
	TopicWaitlist   = "waitlist"
	TopicGrade      = "grade"
	TopicCapacity   = "capacity"
)
