package validation

import "github.com/noah-isme/campus-enrollment/internal/models"

// Chain is an ordered list of validators. Order only decides which failure
// is surfaced when several rules would reject.
type Chain []Validator

// DefaultChain returns the standard rules in their fixed order:
// prerequisite, capacity, time conflict.
func DefaultChain(resolve CourseResolver) Chain {
	return Chain{Prerequisite(), Capacity(), TimeConflict(resolve)}
}

// Run evaluates the validators in order and stops at the first failure.
func (c Chain) Run(student *models.Student, course *models.Course) *Failure {
	for _, v := range c {
		if failure := v.Check(student, course); failure != nil {
			if failure.Rule == "" {
				failure.Rule = v.Name
			}
			return failure
		}
	}
	return nil
}

// Names lists the validator names in evaluation order.
func (c Chain) Names() []string {
	names := make([]string, 0, len(c))
	for _, v := range c {
		names = append(names, v.Name)
	}
	return names
}
