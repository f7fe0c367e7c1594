package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashflow/internal/domain"
)

// FlowResponse represents a flow in API responses.
type FlowResponse struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Direction      string          `json:"direction"`
	Classification string          `json:"classification"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentMethod  string          `json:"payment_method"`
	MovementDate   time.Time       `json:"movement_date"`
	Description    string          `json:"description,omitempty"`
	Edited         bool            `json:"edited"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// FlowFromDomain converts domain flow to response.
func FlowFromDomain(f *domain.Flow) *FlowResponse {
	return &FlowResponse{
		ID:             f.ID,
		UserID:         f.UserID,
		Direction:      string(f.Direction),
		Classification: string(f.Classification),
		Amount:         f.Amount,
		PaymentMethod:  string(f.PaymentMethod),
		MovementDate:   f.MovementDate,
		Description:    f.Description,
		Edited:         f.Edited,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

// FlowsFromDomain converts domain flows to responses.
func FlowsFromDomain(flows []*domain.Flow) []*FlowResponse {
	result := make([]*FlowResponse, len(flows))
	for i, f := range flows {
		result[i] = FlowFromDomain(f)
	}
	return result
}

// DeletedFlowResponse confirms a deletion and echoes the removed flow.
type DeletedFlowResponse struct {
	Message string        `json:"message"`
	Deleted *FlowResponse `json:"deleted"`
}

// SnapshotResponse represents a balance snapshot in API responses.
type SnapshotResponse struct {
	ID             string          `json:"id"`
	AccountBalance decimal.Decimal `json:"account_balance"`
	CashBalance    decimal.Decimal `json:"cash_balance"`
	RecordedAt     time.Time       `json:"recorded_at"`
}

// SnapshotFromDomain converts domain snapshot to response.
func SnapshotFromDomain(s *domain.Snapshot) *SnapshotResponse {
	return &SnapshotResponse{
		ID:             s.ID,
		AccountBalance: s.AccountBalance,
		CashBalance:    s.CashBalance,
		RecordedAt:     s.RecordedAt,
	}
}

// SnapshotsFromDomain converts domain snapshots to responses.
func SnapshotsFromDomain(snapshots []*domain.Snapshot) []*SnapshotResponse {
	result := make([]*SnapshotResponse, len(snapshots))
	for i, s := range snapshots {
		result[i] = SnapshotFromDomain(s)
	}
	return result
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserFromDomain converts domain user to response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UsersFromDomain converts domain users to responses.
func UsersFromDomain(users []*domain.User) []*UserResponse {
	result := make([]*UserResponse, len(users))
	for i, u := range users {
		result[i] = UserFromDomain(u)
	}
	return result
}

// LoginResponse carries the access token. The refresh token travels in an
// HTTP-only cookie, never in the body.
type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	User        *UserResponse `json:"user"`
}

// MessageResponse represents a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
