package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-marketplace-api/internal/container"
	"github.com/oksasatya/go-marketplace-api/internal/domain/repository"
	handlers "github.com/oksasatya/go-marketplace-api/internal/interface/http"
	"github.com/oksasatya/go-marketplace-api/internal/interface/middleware"
)

// OfferModule wires the listing routes.
// Public: GET /offers, GET /offers/search, GET /offer/:id
// Protected: POST /offer/publish, PUT /offer/update(/:id), DELETE /offer/delete(/:id)
type OfferModule struct {
	Handler *handlers.OfferHandler
	Users   repository.UserRepository
}

func NewOfferModule(h *handlers.OfferHandler, users repository.UserRepository) *OfferModule {
	return &OfferModule{Handler: h, Users: users}
}

func (m *OfferModule) Register(rg *gin.RouterGroup) {
	browseLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/offers", browseLimiter, m.Handler.List)
	rg.GET("/offers/search", browseLimiter, m.Handler.Search)
	rg.GET("/offer/:id", browseLimiter, m.Handler.Get)

	auth := rg.Group("/offer")
	auth.Use(middleware.Auth(m.Users, container.GetRedis(), container.GetLogger()))
	{
		auth.POST("/publish", m.Handler.Publish)
		auth.PUT("/update", m.Handler.Update)
		auth.PUT("/update/:id", m.Handler.Update)
		auth.DELETE("/delete", m.Handler.Delete)
		auth.DELETE("/delete/:id", m.Handler.Delete)
	}
}
