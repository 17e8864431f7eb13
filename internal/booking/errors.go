package booking

import (
	"errors"
	"fmt"
)

var (
	ErrSubcategoryRequired = errors.New("subcategory not selected")
	ErrDateRequired        = errors.New("date not selected")
	ErrTimeRequired        = errors.New("time slot not selected")
	ErrUseFinalize         = errors.New("contact details step is completed with FinalizeDetails")
	ErrNotAtDetails        = errors.New("contact details can only be submitted at step 4")
)

// StepError is a blocked Advance. Message is what the user is told.
type StepError struct {
	Step    int
	Message string
	Err     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d: %s", e.Step, e.Message)
}

func (e *StepError) Unwrap() error { return e.Err }
