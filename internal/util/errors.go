package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrUnauthorized       = errors.New("unauthorized")

	ErrCourseNotFound    = errors.New("course not found")
	ErrCourseUnpublished = errors.New("course not published")
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrGroupNotFound     = errors.New("group not found")
	ErrBadgeNotFound     = errors.New("badge not found")
	ErrNotEnrolled       = errors.New("not enrolled in course")

	// ErrValidation covers malformed submissions: a non-mapping answers
	// payload or a quiz with zero questions. Raised before grading; the
	// grader itself never errors.
	ErrValidation = errors.New("validation failed")
)
