package container

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError is returned by Get when an identifier resolves to neither a
// binding nor a registered constructible type. The auto-wirer treats it as
// the signal to fall back to a parameter's default value; every other error
// propagates untouched.
type NotFoundError struct {
	// ID is the identifier that could not be resolved, after alias
	// substitution.
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("container: nothing is bound to [%s] and no such type is registered", e.ID)
}

// ContainerError reports a build or configuration failure: a circular
// dependency, a non-instantiable type, an unresolvable constructor
// parameter, or a failing factory. It wraps the underlying cause when there
// is one.
type ContainerError struct {
	msg   string
	cause error
}

func (e *ContainerError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *ContainerError) Unwrap() error { return e.cause }

// IsNotFound reports whether err is, or wraps, a NotFoundError.
//
// Note: the auto-wirer's default-value fallback deliberately does NOT use
// this — it only reacts to a bare NotFoundError, so that a missing
// transitive dependency inside an existing binding still surfaces as the
// build failure it is.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func buildErrorf(format string, args ...any) *ContainerError {
	return &ContainerError{msg: "container: " + fmt.Sprintf(format, args...)}
}

func wrapBuildError(cause error, format string, args ...any) *ContainerError {
	return &ContainerError{msg: "container: " + fmt.Sprintf(format, args...), cause: cause}
}

// circularError renders the resolution chain up to and including the
// identifier that re-entered it, e.g. "a -> b -> a".
func circularError(stack []string, id string) *ContainerError {
	chain := make([]string, 0, len(stack)+1)
	chain = append(chain, stack...)
	chain = append(chain, id)
	return buildErrorf("circular dependency: %s", strings.Join(chain, " -> "))
}
