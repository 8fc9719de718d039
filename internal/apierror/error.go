package apierror

import "errors"

// Error carries a generated Result through ordinary error returns.
type Error struct {
	kind   Kind
	result Result
	cause  error
}

// New generates the result for details and wraps it as an error. The
// optional cause is exposed through Unwrap.
func New[D any](def Definition[D], details D, cause ...error) *Error {
	e := &Error{kind: def.Kind(), result: def.Generate(details)}
	if len(cause) > 0 {
		e.cause = cause[0]
	}
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.result.Reason
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Kind() Kind     { return e.kind }
func (e *Error) Code() int      { return e.result.Code }
func (e *Error) Reason() string { return e.result.Reason }
func (e *Error) Result() Result { return e.result }

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	return errors.AsType[*Error](err)
}

// IsKind reports whether err carries a registry error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.kind == kind
}
