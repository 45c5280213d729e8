package application

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileAlreadySet  = errors.New("profile already submitted")
	ErrInvalidProfile     = errors.New("invalid profile")
	ErrInvalidCourse      = errors.New("invalid course")
	ErrCourseNotFound     = errors.New("course not found")
	ErrExportUnavailable  = errors.New("catalog export not configured")
	ErrSearchUnavailable  = errors.New("course search not configured")
)
