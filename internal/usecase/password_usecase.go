package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/infrastructure/metrics"
)

// PasswordResetUseCase handles password recovery by email.
type PasswordResetUseCase struct {
	userRepo UserRepository
	mailer   Mailer
	// resetBaseURL is the frontend page that consumes the token.
	resetBaseURL string
	metrics      *metrics.Metrics
}

// NewPasswordResetUseCase creates a new PasswordResetUseCase. metrics may be
// nil.
func NewPasswordResetUseCase(userRepo UserRepository, mailer Mailer, resetBaseURL string, metrics *metrics.Metrics) *PasswordResetUseCase {
	return &PasswordResetUseCase{
		userRepo:     userRepo,
		mailer:       mailer,
		resetBaseURL: resetBaseURL,
		metrics:      metrics,
	}
}

// RequestReset generates a single-use recovery token, stores it on the user
// row and emails the reset link.
func (uc *PasswordResetUseCase) RequestReset(ctx context.Context, email string) error {
	// Emails are stored lowercased; the lookup must match what Register wrote.
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	expiry := now.Add(resetTokenTTL)

	user.ResetToken = token
	user.ResetTokenExpiry = &expiry
	user.UpdatedAt = now

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return err
	}

	link := fmt.Sprintf("%s?token=%s", uc.resetBaseURL, url.QueryEscape(token))

	if err := uc.mailer.SendPasswordReset(ctx, user.Email, user.Name, link); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.ResetEmailsSent.Inc()
	}

	return nil
}

// VerifyToken checks a recovery token and returns the user it belongs to.
func (uc *PasswordResetUseCase) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrInvalidResetToken
	}

	user, err := uc.userRepo.GetByResetToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidResetToken
	}

	if user.ResetTokenExpiry == nil || user.ResetTokenExpiry.Before(time.Now().UTC()) {
		return nil, domain.ErrExpiredResetToken
	}

	return user, nil
}

// ResetPassword sets a new password for the token's user and expires the
// token so it cannot be replayed.
func (uc *PasswordResetUseCase) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := uc.VerifyToken(ctx, token)
	if err != nil {
		return err
	}

	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	user.HashedPassword = hashed
	user.ResetToken = ""
	user.ResetTokenExpiry = nil
	user.UpdatedAt = time.Now().UTC()

	return uc.userRepo.Update(ctx, user)
}

func generateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}
