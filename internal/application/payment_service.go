package application

import (
	"context"
	"errors"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-marketplace-api/internal/domain/repository"
	"github.com/oksasatya/go-marketplace-api/pkg/payment"
)

var ErrChargeFailed = errors.New("charge was not accepted")

// PaymentService charges a buyer the price of an offer through the external
// payment collaborator. There is deliberately no idempotency key: a client
// retry after a network error can double-charge (inherited behavior).
type PaymentService struct {
	Offers   repository.OfferRepository
	Charger  payment.Charger
	Currency string
	Logger   *logrus.Logger
}

func NewPaymentService(offers repository.OfferRepository, charger payment.Charger, currency string, logger *logrus.Logger) *PaymentService {
	return &PaymentService{Offers: offers, Charger: charger, Currency: currency, Logger: logger}
}

// Charge loads the product and requests a charge over its price in minor
// currency units, described by the product name.
func (s *PaymentService) Charge(ctx context.Context, buyerID, productID, sourceToken string) (*payment.Result, error) {
	o, err := s.Offers.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}

	res, err := s.Charger.Charge(ctx, payment.ChargeInput{
		Amount:      int64(math.Round(o.Price * 100)),
		Currency:    s.Currency,
		SourceToken: sourceToken,
		Description: o.Name,
	})
	if err != nil {
		return nil, err
	}
	if res.Status != payment.StatusSucceeded {
		if s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{"buyer_id": buyerID, "product_id": productID, "status": res.Status}).Warn("charge not accepted")
		}
		return nil, ErrChargeFailed
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"buyer_id": buyerID, "product_id": productID, "charge_id": res.ID}).Info("charge succeeded")
	}
	return res, nil
}
