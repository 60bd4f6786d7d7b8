package publish

import "errors"

// Kind classifies why a run failed.
type Kind string

const (
	KindConfig Kind = "configuration"
	KindInput  Kind = "input"
	KindRemote Kind = "remote"
)

// Error carries the failure kind; its message is the underlying error's.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or "" when err did not come from a publish step.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func fail(kind Kind, err error) error { return &Error{Kind: kind, Err: err} }
