package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/simonbeirouti/aura/internal/domain/services"
	"github.com/simonbeirouti/aura/internal/interfaces/http/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	PaymentMethods *PaymentMethodHandler
	Subscriptions  *SubscriptionHandler
	Purchases      *PurchaseHandler
	Catalog        *CatalogHandler
	Profiles       *ProfileHandler
	Contractors    *ContractorHandler
	Sessions       *SessionHandler
	Stores         *StoreHandler
	System         *SystemHandler
}

// NewRouter mounts one route per operation. Session and health routes are
// public; everything else requires a verified ID token.
func NewRouter(h Handlers, auth *services.AuthService, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS())

	router.GET("/health", h.System.Health)

	public := router.Group("/api")
	{
		public.POST("/session", h.Sessions.Store)
		public.GET("/session/status", h.Sessions.Status)
		public.GET("/status", h.System.Status)
		public.GET("/config/publishable-key", h.PaymentMethods.PublishableKey)
	}

	api := router.Group("/api")
	api.Use(middleware.Auth(auth))
	{
		api.GET("/session", h.Sessions.Get)
		api.DELETE("/session", h.Sessions.Clear)

		api.GET("/profile", h.Profiles.Get)
		api.POST("/profile", h.Profiles.Create)
		api.PATCH("/profile", h.Profiles.Update)
		api.GET("/profile/username-available", h.Profiles.UsernameAvailable)

		api.POST("/customers", h.PaymentMethods.GetOrCreateCustomer)
		api.GET("/customers/:id/payment-methods", h.PaymentMethods.ListProcessor)
		api.POST("/payment-methods", h.PaymentMethods.Register)
		api.GET("/payment-methods", h.PaymentMethods.List)
		api.POST("/payment-methods/default", h.PaymentMethods.SetDefault)
		api.DELETE("/payment-methods/:id", h.PaymentMethods.Remove)
		api.POST("/payment-methods/:id/used", h.PaymentMethods.MarkUsed)
		api.POST("/payment-methods/repair", h.PaymentMethods.Repair)
		api.POST("/payment-methods/setup-intent", h.PaymentMethods.CreateSetupIntent)

		api.POST("/subscriptions", h.Subscriptions.Create)
		api.GET("/subscriptions/:id", h.Subscriptions.Get)
		api.DELETE("/subscriptions/:id", h.Subscriptions.Cancel)
		api.POST("/subscriptions/:id/sync", h.Subscriptions.Sync)
		api.POST("/subscriptions/sync-all", h.Subscriptions.SyncAll)

		api.POST("/purchases/payment-intent", h.Purchases.CreatePaymentIntent)
		api.POST("/purchases/charge", h.Purchases.ChargeStoredMethod)
		api.GET("/purchases/payment-intent/:id", h.Purchases.VerifyPaymentIntent)
		api.POST("/purchases/complete", h.Purchases.Complete)
		api.POST("/purchases/record", h.Purchases.Record)
		api.GET("/purchases", h.Purchases.List)

		api.GET("/catalog/packages", h.Catalog.Packages)
		api.GET("/catalog/plans", h.Catalog.Plans)
		api.POST("/catalog/products", h.Catalog.ProvisionProduct)
		api.GET("/catalog/products/:id", h.Catalog.Product)
		api.POST("/catalog/sync-prices", h.Catalog.SyncPrices)

		api.POST("/contractors", h.Contractors.Onboard)
		api.GET("/contractors/me", h.Contractors.Get)
		api.PUT("/contractors/kyc-form", h.Contractors.SaveKYCForm)
		api.GET("/contractors/kyc-form", h.Contractors.LoadKYCForm)

		api.GET("/stores", h.Stores.List)
		api.GET("/stores/:id", h.Stores.Get)
		api.GET("/stores/:id/metadata", h.Stores.Metadata)
		api.PUT("/stores/:id", h.Stores.Set)
		api.DELETE("/stores/:id", h.Stores.Delete)

		api.GET("/migrations/status", h.System.MigrationStatus)
		api.POST("/migrations/:id/applied", h.System.MarkMigrationApplied)
		api.POST("/migrations/reset", h.System.ResetMigrations)
	}

	return router
}
