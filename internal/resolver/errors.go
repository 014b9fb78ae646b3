package resolver

import (
	"errors"
	"fmt"
)

// ErrResolution is matched by every *ConditionError.
var ErrResolution = errors.New("resolution failed")

// ConditionError reports a `when` or `build_context` expression that did
// not evaluate to a known bool.
type ConditionError struct {
	Subject string // e.g. "requires.gtest"
	Attr    string
	Msg     string
}

func (e *ConditionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("resolver: %s.%s: %s", e.Subject, e.Attr, e.Msg)
}

func (e *ConditionError) Is(target error) bool {
	return target == ErrResolution
}
