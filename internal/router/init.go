package router

import (
	"github.com/oksasatya/go-marketplace-api/internal/application"
	"github.com/oksasatya/go-marketplace-api/internal/container"
	pginfra "github.com/oksasatya/go-marketplace-api/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/go-marketplace-api/internal/interface/http"
	"github.com/oksasatya/go-marketplace-api/internal/router/modules"
)

// InitModules wires repositories, services and handlers from the container
// singletons and registers every feature module. Called once at startup.
func InitModules(r *Registry) {
	logger := container.GetLogger()
	cfg := container.GetConfig()

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	offerRepo := pginfra.NewOfferRepository(container.GetPGPool())

	userSvc := application.NewUserService(userRepo, container.GetImages(), container.GetRabbitPub(), logger)
	offerSvc := application.NewOfferService(offerRepo, userRepo, container.GetImages(), logger, container.GetES(), cfg.ESOffersIndex)
	paymentSvc := application.NewPaymentService(offerRepo, container.GetCharger(), cfg.ChargeCurrency, logger)

	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger)))
	r.Add(modules.NewOfferModule(handlers.NewOfferHandler(offerSvc, logger), userRepo))
	r.Add(modules.NewPaymentModule(handlers.NewPaymentHandler(paymentSvc, logger), userRepo))
}
