package payment

import "context"

// ChargeInput describes one charge request. Amount is in minor currency
// units (cents).
type ChargeInput struct {
	Amount      int64
	Currency    string
	SourceToken string
	Description string
}

// Result reports what the processor did with the charge.
type Result struct {
	ID     string
	Status string
	Amount int64
}

const StatusSucceeded = "succeeded"

// Charger is the external payment collaborator. There is no retry and no
// idempotency key: a duplicate client retry can double-charge.
type Charger interface {
	Charge(ctx context.Context, in ChargeInput) (*Result, error)
}
