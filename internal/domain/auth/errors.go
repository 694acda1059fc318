package auth

import "errors"

var ErrMissingClaims = errors.New("token claims missing from request")
