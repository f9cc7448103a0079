package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-marketplace-api/internal/container"
	"github.com/oksasatya/go-marketplace-api/internal/domain/repository"
	handlers "github.com/oksasatya/go-marketplace-api/internal/interface/http"
	"github.com/oksasatya/go-marketplace-api/internal/interface/middleware"
)

// PaymentModule wires the charge route.
// Protected: POST /payment
type PaymentModule struct {
	Handler *handlers.PaymentHandler
	Users   repository.UserRepository
}

func NewPaymentModule(h *handlers.PaymentHandler, users repository.UserRepository) *PaymentModule {
	return &PaymentModule{Handler: h, Users: users}
}

func (m *PaymentModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, container.GetRedis(), container.GetLogger()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil))

	auth.POST("/payment", m.Handler.Charge)
}
