package lifecycle

import (
	"errors"
	"fmt"
)

var (
	ErrHookOutOfOrder    = errors.New("hook called out of order")
	ErrHookAlreadyCalled = errors.New("hook already called")
	ErrAborted           = errors.New("lifecycle aborted by an earlier failure")
)

// HookError wraps a failure of, or a refusal to run, a hook.
type HookError struct {
	Hook  Hook
	State State
	Err   error
}

func (e *HookError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("lifecycle: %s (state %s): %v", e.Hook, e.State, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}
