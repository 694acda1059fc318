package relation

import "errors"

var (
	ErrAlreadyExists = errors.New("relation already exists")
	ErrNotExists     = errors.New("relation does not exist")
	ErrSelfRelation  = errors.New("relation to self is forbidden")
)

// Error carries a human readable message naming both parties.
// Compare with errors.Is against the sentinels above.
type Error struct {
	Err     error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }
