package usecase

import "time"

const (
	// bcrypt cost factor for password hashing.
	passwordHashCost = 12

	// Account lockout after consecutive failed logins.
	maxLoginAttempts = 5
	lockoutDuration  = 15 * time.Minute

	// Password recovery token parameters.
	resetTokenBytes = 32 // 256 bits
	resetTokenTTL   = 30 * time.Minute
)
