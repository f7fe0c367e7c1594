package usecase

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/infrastructure/metrics"
)

// UserUseCase handles registration, authentication and user management.
type UserUseCase struct {
	userRepo UserRepository
	idGen    IDGenerator
	metrics  *metrics.Metrics
}

// NewUserUseCase creates a new UserUseCase. metrics may be nil.
func NewUserUseCase(userRepo UserRepository, idGen IDGenerator, metrics *metrics.Metrics) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		idGen:    idGen,
		metrics:  metrics,
	}
}

// RegisterInput represents input for registering a user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// Register creates a new user with a hashed password. An empty role defaults
// to the regular user role.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.IsValid() {
		return nil, domain.ErrForbidden
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:             uc.idGen.Generate(),
		Name:           strings.TrimSpace(input.Name),
		Email:          email,
		HashedPassword: hashed,
		Role:           role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

// AuthenticateInput represents login credentials.
type AuthenticateInput struct {
	Email    string
	Password string
}

// Authenticate verifies credentials. Five consecutive failures lock the
// account for fifteen minutes; a successful login resets the counter.
func (uc *UserUseCase) Authenticate(ctx context.Context, input AuthenticateInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		uc.recordAuthFailure("unknown_user")
		return nil, domain.ErrUnauthorized
	}

	now := time.Now().UTC()
	if user.Locked(now) {
		uc.recordAuthFailure("locked")
		return nil, domain.ErrAccountLocked
	}

	if err := verifyPassword(user.HashedPassword, input.Password); err != nil {
		user.LoginAttempts++
		user.UpdatedAt = now

		if user.LoginAttempts >= maxLoginAttempts {
			lockedUntil := now.Add(lockoutDuration)
			user.LockedUntil = &lockedUntil
			user.LoginAttempts = 0

			if err := uc.userRepo.Update(ctx, user); err != nil {
				return nil, err
			}

			uc.recordAuthFailure("locked")
			return nil, domain.ErrAccountLocked
		}

		if err := uc.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}

		uc.recordAuthFailure("bad_password")
		return nil, domain.ErrUnauthorized
	}

	if user.LoginAttempts != 0 || user.LockedUntil != nil {
		user.LoginAttempts = 0
		user.LockedUntil = nil
		user.UpdatedAt = now

		if err := uc.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	if uc.metrics != nil {
		uc.metrics.AuthAttempts.WithLabelValues("success").Inc()
	}

	user.HashedPassword = ""

	return user, nil
}

func (uc *UserUseCase) recordAuthFailure(reason string) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.AuthAttempts.WithLabelValues("failure").Inc()
	uc.metrics.AuthFailures.WithLabelValues(reason).Inc()
}

// GetUser retrieves a user by ID.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

// UpdateUserInput represents the optional fields of a user update.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *domain.Role
}

// UpdateUser updates user information. The password is rehashed only when a
// non-blank one is supplied.
func (uc *UserUseCase) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := domain.ValidateName(*input.Name); err != nil {
			return nil, err
		}
		user.Name = strings.TrimSpace(*input.Name)
	}

	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if err := domain.ValidateEmail(email); err != nil {
			return nil, err
		}

		if email != user.Email {
			existing, err := uc.userRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, domain.ErrEmailTaken
			}
		}

		user.Email = email
	}

	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, domain.ErrForbidden
		}
		user.Role = *input.Role
	}

	if input.Password != nil && strings.TrimSpace(*input.Password) != "" {
		if err := domain.ValidatePassword(*input.Password); err != nil {
			return nil, err
		}

		hashed, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.HashedPassword = hashed
	}

	user.UpdatedAt = time.Now().UTC()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

// DeleteUser deletes a user.
func (uc *UserUseCase) DeleteUser(ctx context.Context, id string) error {
	if _, err := uc.userRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.userRepo.Delete(ctx, id)
}

// ListUsers lists users with pagination.
func (uc *UserUseCase) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	users, err := uc.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		user.HashedPassword = ""
	}

	return users, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
