package models

import "errors"

// Application-wide standard errors
var (
	// Общие ошибки
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized") // Authentication required or failed
	ErrForbidden    = errors.New("forbidden")    // Authenticated, but lacks permission

	// User & Authentication Errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user with this username already exists")
	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWrongPassword      = errors.New("current password is incorrect")

	// Token Errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")

	// Story & Contribution Errors
	ErrStoryNotFound        = errors.New("story not found")
	ErrContributionNotFound = errors.New("contribution not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidGenre         = errors.New("invalid genre")
	ErrInvalidEvaluation    = errors.New("invalid evaluation")
	ErrInvalidTransition    = errors.New("invalid status transition")
)

// Коды ошибок API, отдаются клиенту в поле code.
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeWrongCredentials = "WRONG_CREDENTIALS"
	ErrCodeTokenInvalid     = "TOKEN_INVALID"
	ErrCodeTokenExpired     = "TOKEN_EXPIRED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeDuplicateUser    = "DUPLICATE_USERNAME"
	ErrCodeDuplicateEmail   = "DUPLICATE_EMAIL"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)
