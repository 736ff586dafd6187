package access

import (
	"fmt"

	"github.com/kweid-platfrom/frontend-sub005/internal/models"
)

// GuardError reports why a guarded execution did not complete: either the
// action was denied before the callback ran, or the callback itself
// failed. The two cases carry different codes and are never conflated.
type GuardError struct {
	Code     Code
	Message  string
	Decision Decision
	Err      error // underlying callback error, set only for CodeExecutionError
}

// Error implements the error interface.
func (e *GuardError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the callback error for errors.Is/As.
func (e *GuardError) Unwrap() error {
	return e.Err
}

// ExecuteIfAllowed authorizes the action and runs fn only when allowed.
// A denial is returned without invoking fn. An error or panic from fn is
// wrapped as CodeExecutionError with the underlying message so callback
// failures stay distinguishable from denials.
func ExecuteIfAllowed(actx Context, suite *models.Suite, action string, fn func() error) (gerr *GuardError) {
	dec := Authorize(actx, suite, action)
	if !dec.Allowed {
		return &GuardError{Code: dec.Code, Message: dec.Message, Decision: dec}
	}

	defer func() {
		if r := recover(); r != nil {
			gerr = &GuardError{
				Code:     CodeExecutionError,
				Message:  Message(CodeExecutionError),
				Decision: dec,
				Err:      fmt.Errorf("%v", r),
			}
		}
	}()

	if err := fn(); err != nil {
		return &GuardError{
			Code:     CodeExecutionError,
			Message:  err.Error(),
			Decision: dec,
			Err:      err,
		}
	}
	return nil
}
