package application

import "errors"

var (
	// ErrInvalidCredentials covers unknown email, wrong password, and
	// bad refresh tokens alike, so callers cannot tell which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrReportNotFound     = errors.New("report not found")
)
