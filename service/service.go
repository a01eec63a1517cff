package service

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/weirdroach/weird-roach-website/internal/email"
	"github.com/weirdroach/weird-roach-website/internal/handlers"
	"github.com/weirdroach/weird-roach-website/internal/printful"
	"github.com/weirdroach/weird-roach-website/internal/reconciler"
	"github.com/weirdroach/weird-roach-website/internal/resolver"
	"github.com/weirdroach/weird-roach-website/internal/stripe"
	"github.com/weirdroach/weird-roach-website/storage"
)

type Service struct {
	storage         *storage.Storage
	config          *Config
	checkoutHandler *handlers.CheckoutHandler
	webhookHandler  *handlers.WebhookHandler
	productsHandler *handlers.ProductsHandler
	printfulHandler *handlers.PrintfulWebhookHandler
}

func New(storage *storage.Storage, config *Config) *Service {
	stripeService := stripe.NewService(config.Stripe.SecretKey)
	printfulClient := printful.NewClient(config.Printful.APIURL, config.Printful.AccessToken, config.Printful.StoreID)

	emailService := email.NewService(email.Config{
		Host:     config.Email.Host,
		Port:     config.Email.Port,
		User:     config.Email.User,
		Password: config.Email.Password,
		Internal: config.Email.Internal,
	}, storage.Queries)

	variantResolver := resolver.New(stripeService)
	variantResolver.AllowFallback = config.AllowFallbackVariant

	rec := reconciler.New(
		stripeService,
		variantResolver,
		printfulClient,
		storage.Queries,
		emailService,
		config.Email.User,
	)

	return &Service{
		storage:         storage,
		config:          config,
		checkoutHandler: handlers.NewCheckoutHandler(stripeService, config.BaseURL, config.Checkout.ShippingCents, config.Checkout.AllowedCountries),
		webhookHandler:  handlers.NewWebhookHandler(rec, config.Stripe.WebhookSecret),
		productsHandler: handlers.NewProductsHandler(printfulClient),
		printfulHandler: handlers.NewPrintfulWebhookHandler(emailService),
	}
}

func (s *Service) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")

	// Catalog
	api.GET("/products", s.productsHandler.ListProducts)
	api.GET("/products/:id", s.productsHandler.GetProduct)

	// Checkout
	api.POST("/create-checkout-session", s.checkoutHandler.CreateCheckoutSession)

	// Webhooks
	api.POST("/webhook", s.webhookHandler.HandleWebhook)
	api.POST("/printful/webhook", s.printfulHandler.HandleWebhook)

	// Health check
	e.GET("/health", s.handleHealth)
}

func (s *Service) handleHealth(c echo.Context) error {
	if err := s.storage.DB().Ping(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
