package payment

import (
	"context"

	stripe "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

// StripeCharger implements Charger with a dedicated Stripe client, so the
// secret key is injected at construction instead of set on a process-wide
// global.
type StripeCharger struct {
	api *client.API
}

func NewStripeCharger(secretKey string) *StripeCharger {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeCharger{api: api}
}

func (s *StripeCharger) Charge(ctx context.Context, in ChargeInput) (*Result, error) {
	params := &stripe.ChargeParams{
		Params:      stripe.Params{Context: ctx},
		Amount:      stripe.Int64(in.Amount),
		Currency:    stripe.String(in.Currency),
		Description: stripe.String(in.Description),
	}
	if err := params.SetSource(in.SourceToken); err != nil {
		return nil, err
	}
	ch, err := s.api.Charges.New(params)
	if err != nil {
		return nil, err
	}
	return &Result{ID: ch.ID, Status: string(ch.Status), Amount: ch.Amount}, nil
}

var _ Charger = (*StripeCharger)(nil)
