package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/usecase"
)

// CreateFlowRequest represents a request to record a flow.
type CreateFlowRequest struct {
	Direction      string          `json:"direction"`
	Classification string          `json:"classification"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentMethod  string          `json:"payment_method"`
	MovementDate   time.Time       `json:"movement_date"`
	Description    string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input. The user comes from the access
// token, not from the body.
func (r *CreateFlowRequest) ToUseCaseInput(userID string) usecase.CreateFlowInput {
	return usecase.CreateFlowInput{
		UserID:         userID,
		Direction:      domain.Direction(r.Direction),
		Classification: domain.Classification(r.Classification),
		Amount:         r.Amount,
		PaymentMethod:  domain.PaymentMethod(r.PaymentMethod),
		MovementDate:   r.MovementDate,
		Description:    r.Description,
	}
}

// UpdateFlowRequest represents a request to edit a flow. Absent fields keep
// their stored value.
type UpdateFlowRequest struct {
	Direction      *string          `json:"direction,omitempty"`
	Classification *string          `json:"classification,omitempty"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	PaymentMethod  *string          `json:"payment_method,omitempty"`
	MovementDate   *time.Time       `json:"movement_date,omitempty"`
	Description    *string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateFlowRequest) ToUseCaseInput() usecase.UpdateFlowInput {
	input := usecase.UpdateFlowInput{
		Amount:       r.Amount,
		MovementDate: r.MovementDate,
		Description:  r.Description,
	}

	if r.Direction != nil {
		direction := domain.Direction(*r.Direction)
		input.Direction = &direction
	}
	if r.Classification != nil {
		classification := domain.Classification(*r.Classification)
		input.Classification = &classification
	}
	if r.PaymentMethod != nil {
		method := domain.PaymentMethod(*r.PaymentMethod)
		input.PaymentMethod = &method
	}

	return input
}

// RegisterRequest represents a request to register a user.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Role:     domain.Role(r.Role),
	}
}

// LoginRequest represents login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest represents a request to edit a user. Absent fields keep
// their stored value.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateUserRequest) ToUseCaseInput() usecase.UpdateUserInput {
	input := usecase.UpdateUserInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
	}

	if r.Role != nil {
		role := domain.Role(*r.Role)
		input.Role = &role
	}

	return input
}

// ForgotPasswordRequest represents a request to start password recovery.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents a request to finish password recovery.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
