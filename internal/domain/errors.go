package domain

import "errors"

var (
	// Flow errors
	ErrFlowNotFound          = errors.New("flow not found")
	ErrInvalidDirection      = errors.New("invalid flow direction")
	ErrInvalidClassification = errors.New("invalid flow classification")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
	ErrNegativeAmount        = errors.New("amount must not be negative")
	ErrMissingMovementDate   = errors.New("movement date is required")

	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email is already in use")

	// Authentication errors
	ErrUnauthorized  = errors.New("invalid credentials")
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrAccountLocked = errors.New("account is locked, try again later")
	ErrForbidden     = errors.New("insufficient permissions")

	// Password recovery errors
	ErrInvalidResetToken = errors.New("invalid password reset token")
	ErrExpiredResetToken = errors.New("password reset token has expired")
)
