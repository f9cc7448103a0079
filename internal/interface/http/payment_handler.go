package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-marketplace-api/internal/application"
	"github.com/oksasatya/go-marketplace-api/internal/interface/middleware"
	"github.com/oksasatya/go-marketplace-api/pkg/response"
)

type PaymentHandler struct {
	Svc    *application.PaymentService
	Logger *logrus.Logger
}

func NewPaymentHandler(svc *application.PaymentService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{Svc: svc, Logger: logger}
}

type paymentRequest struct {
	StripeToken string `form:"stripeToken" binding:"required"`
	ProductID   string `form:"productId" binding:"required"`
}

// Charge handles POST /payment (auth required).
func (h *PaymentHandler) Charge(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "Please provide a payment token and a product id.")
		return
	}

	res, err := h.Svc.Charge(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), req.ProductID, req.StripeToken)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrOfferNotFound):
			response.Message(c, http.StatusBadRequest, "This offer doesn't exist.")
		case errors.Is(err, application.ErrChargeFailed):
			response.Message(c, http.StatusBadRequest, "An error has occurred.")
		default:
			h.Logger.WithError(err).Error("charge failed")
			response.Message(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"id":     res.ID,
		"status": res.Status,
		"amount": res.Amount,
	})
}
