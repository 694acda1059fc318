package admin

import "errors"

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrAlreadyExists  = errors.New("object with these values already exists")
	ErrReferenced     = errors.New("object is referenced by other rows")
)
