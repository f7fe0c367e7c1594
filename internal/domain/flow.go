package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether a flow brings money in or takes it out.
type Direction string

const (
	DirectionInflow  Direction = "inflow"
	DirectionOutflow Direction = "outflow"
)

// IsValid checks if the direction is a known value.
func (d Direction) IsValid() bool {
	return d == DirectionInflow || d == DirectionOutflow
}

// Classification categorizes what a flow was for.
type Classification string

const (
	ClassificationSale         Classification = "sale"
	ClassificationPurchase     Classification = "purchase"
	ClassificationInvestment   Classification = "investment"
	ClassificationService      Classification = "service"
	ClassificationFixedExpense Classification = "fixed_expense"
)

var validClassifications = map[Classification]bool{
	ClassificationSale:         true,
	ClassificationPurchase:     true,
	ClassificationInvestment:   true,
	ClassificationService:      true,
	ClassificationFixedExpense: true,
}

// IsValid checks if the classification is a known value.
func (c Classification) IsValid() bool {
	return validClassifications[c]
}

// PaymentMethod tells which balance a flow settles against.
type PaymentMethod string

const (
	PaymentMethodCash            PaymentMethod = "cash"
	PaymentMethodCard            PaymentMethod = "card"
	PaymentMethodInstantTransfer PaymentMethod = "instant_transfer"
)

var validPaymentMethods = map[PaymentMethod]bool{
	PaymentMethodCash:            true,
	PaymentMethodCard:            true,
	PaymentMethodInstantTransfer: true,
}

// IsValid checks if the payment method is a known value.
func (p PaymentMethod) IsValid() bool {
	return validPaymentMethods[p]
}

// AffectsAccount reports whether the method settles against the bank-account
// balance. Cash settles against the cash balance.
func (p PaymentMethod) AffectsAccount() bool {
	return p == PaymentMethodCard || p == PaymentMethodInstantTransfer
}

// Flow represents a single recorded cash movement.
type Flow struct {
	ID             string
	UserID         string
	Direction      Direction
	Classification Classification
	Amount         decimal.Decimal
	PaymentMethod  PaymentMethod
	MovementDate   time.Time
	Description    string
	Edited         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SignedAmount returns the amount with the sign implied by the direction.
// Amounts are stored as magnitudes only.
func (f *Flow) SignedAmount() decimal.Decimal {
	if f.Direction == DirectionOutflow {
		return f.Amount.Neg()
	}

	return f.Amount
}

// Validate checks that all required fields are present and well formed.
func (f *Flow) Validate() error {
	if !f.Direction.IsValid() {
		return ErrInvalidDirection
	}

	if !f.Classification.IsValid() {
		return ErrInvalidClassification
	}

	if !f.PaymentMethod.IsValid() {
		return ErrInvalidPaymentMethod
	}

	if f.Amount.IsNegative() {
		return ErrNegativeAmount
	}

	if f.MovementDate.IsZero() {
		return ErrMissingMovementDate
	}

	return nil
}
