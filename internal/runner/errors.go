package runner

import (
	"fmt"
	"time"

	"github.com/v0xg/webreplay/internal/script"
)

// ElementTimeoutError means the target of a click/fill/select/hover
// never became visible within the step's timeout. Fatal to the run.
type ElementTimeoutError struct {
	Selector string
	Index    int
	Timeout  time.Duration
	Err      error
}

func (e *ElementTimeoutError) Error() string {
	return fmt.Sprintf("element %q (match %d) not visible after %s: %v", e.Selector, e.Index, e.Timeout, e.Err)
}

func (e *ElementTimeoutError) Unwrap() error { return e.Err }

// InteractionError means the element was visible but the action
// itself failed. Fatal to the run.
type InteractionError struct {
	Action   script.Action
	Selector string
	Err      error
}

func (e *InteractionError) Error() string {
	if e.Selector == "" {
		return fmt.Sprintf("%s failed: %v", e.Action, e.Err)
	}
	return fmt.Sprintf("%s on %q failed: %v", e.Action, e.Selector, e.Err)
}

func (e *InteractionError) Unwrap() error { return e.Err }
