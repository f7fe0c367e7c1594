package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashflow/internal/domain"
)

func TestCreateFlowRequest_ToUseCaseInput(t *testing.T) {
	movementDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	req := CreateFlowRequest{
		Direction:      "outflow",
		Classification: "purchase",
		Amount:         decimal.NewFromInt(75),
		PaymentMethod:  "card",
		MovementDate:   movementDate,
		Description:    "office supplies",
	}

	input := req.ToUseCaseInput("user-1")

	assert.Equal(t, "user-1", input.UserID)
	assert.Equal(t, domain.DirectionOutflow, input.Direction)
	assert.Equal(t, domain.ClassificationPurchase, input.Classification)
	assert.Equal(t, domain.PaymentMethodCard, input.PaymentMethod)
	assert.True(t, input.Amount.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, movementDate, input.MovementDate)
	assert.Equal(t, "office supplies", input.Description)
}

func TestUpdateFlowRequest_ToUseCaseInput(t *testing.T) {
	t.Run("maps set fields to typed pointers", func(t *testing.T) {
		direction := "inflow"
		method := "cash"
		amount := decimal.NewFromInt(30)

		req := UpdateFlowRequest{
			Direction:     &direction,
			PaymentMethod: &method,
			Amount:        &amount,
		}

		input := req.ToUseCaseInput()

		require.NotNil(t, input.Direction)
		assert.Equal(t, domain.DirectionInflow, *input.Direction)
		require.NotNil(t, input.PaymentMethod)
		assert.Equal(t, domain.PaymentMethodCash, *input.PaymentMethod)
		require.NotNil(t, input.Amount)
		assert.True(t, input.Amount.Equal(amount))
	})

	t.Run("keeps absent fields nil", func(t *testing.T) {
		input := (&UpdateFlowRequest{}).ToUseCaseInput()

		assert.Nil(t, input.Direction)
		assert.Nil(t, input.Classification)
		assert.Nil(t, input.Amount)
		assert.Nil(t, input.PaymentMethod)
		assert.Nil(t, input.MovementDate)
		assert.Nil(t, input.Description)
	})
}

func TestUpdateUserRequest_ToUseCaseInput(t *testing.T) {
	role := "admin"
	name := "Maria Silva"

	input := (&UpdateUserRequest{Name: &name, Role: &role}).ToUseCaseInput()

	require.NotNil(t, input.Role)
	assert.Equal(t, domain.RoleAdmin, *input.Role)
	require.NotNil(t, input.Name)
	assert.Equal(t, "Maria Silva", *input.Name)
	assert.Nil(t, input.Email)
	assert.Nil(t, input.Password)
}
