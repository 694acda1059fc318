package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("a user with that email already exists")
	ErrUsernameAlreadyExists = errors.New("a user with that username already exists")
	ErrUserAlreadyExists     = errors.New("a user with that email or username already exists")
	ErrInvalidPassword       = errors.New("invalid password")
	ErrInvalidCredentials    = errors.New("unable to log in with provided credentials")
)

const (
	msgSubscribeExists    = "user %s is already subscribed to author %s"
	msgSubscribeNotExists = "user %s is not subscribed to author %s"
	msgSubscribeSelf      = "you cannot subscribe to yourself"
)
