package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot records the state of the two running balances at one point in
// time. Rows are immutable and append-only; the current balance is the
// snapshot with the latest RecordedAt.
type Snapshot struct {
	ID             string
	AccountBalance decimal.Decimal
	CashBalance    decimal.Decimal
	RecordedAt     time.Time
}

// ZeroSnapshot returns the seed snapshot used when no history exists yet.
func ZeroSnapshot(at time.Time) Snapshot {
	return Snapshot{
		AccountBalance: decimal.Zero,
		CashBalance:    decimal.Zero,
		RecordedAt:     at,
	}
}

// Apply returns a new snapshot with the flow's effect applied once.
// sign is +1 to apply the flow and -1 to revert it. Card and instant-transfer
// flows move the account balance; cash flows move the cash balance. The
// receiver is never mutated.
func (s Snapshot) Apply(flow *Flow, sign int64) Snapshot {
	delta := flow.SignedAmount().Mul(decimal.NewFromInt(sign))

	next := s
	if flow.PaymentMethod.AffectsAccount() {
		next.AccountBalance = s.AccountBalance.Add(delta)
	} else {
		next.CashBalance = s.CashBalance.Add(delta)
	}

	return next
}
