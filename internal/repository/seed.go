package repository

import (
	"errors"

	"github.com/noah-isme/campus-enrollment/internal/models"
)

// SeedSampleData loads the demo students and courses. Entities that already
// exist are left untouched.
func SeedSampleData(catalog *CatalogRepository) error {
	alice := models.NewStudent("S001", "Alice")
	alice.AddCompletedCourse("CS101")
	bob := models.NewStudent("S002", "Bob")
	bob.AddCompletedCourse("CS101")

	cs201 := models.NewCourse("CS201", "Algorithms", 2, "Mon9-11")
	cs201.AddPrerequisite("CS101")
	bus101 := models.NewCourse("BUS101", "Intro Business", 50, "Tue10-12")

	for _, s := range []*models.Student{alice, bob} {
		if err := catalog.CreateStudent(s); err != nil && !errors.Is(err, ErrDuplicate) {
			return err
		}
	}
	for _, c := range []*models.Course{cs201, bus101} {
		if err := catalog.CreateCourse(c); err != nil && !errors.Is(err, ErrDuplicate) {
			return err
		}
	}
	return nil
}
