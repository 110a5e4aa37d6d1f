package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simonbeirouti/aura/internal/config"
	"github.com/simonbeirouti/aura/internal/domain/services"
	"github.com/simonbeirouti/aura/internal/infrastructure/processor"
	"github.com/simonbeirouti/aura/internal/infrastructure/reststore"
	"github.com/simonbeirouti/aura/internal/infrastructure/vault"
	"github.com/simonbeirouti/aura/internal/interfaces/http/handlers"
	"github.com/simonbeirouti/aura/internal/migrations"
)

func main() {
	cfg := config.Load()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	keyCache := vault.NewKeyCache()
	sealedVault, err := vault.Open(cfg.Vault.Dir, cfg.Vault.Passphrase, keyCache)
	if err != nil {
		log.Fatalf("Failed to open vault: %v", err)
	}

	sessions := services.NewSessionService(sealedVault, keyCache, logger)
	stores := services.NewStoreService(sealedVault)
	tracker := migrations.NewTracker(cfg.Vault.Dir+"/migrations", sealedVault)

	restClient := reststore.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, sessions)
	profileRepo := reststore.NewProfileRepository(restClient)
	methodRepo := reststore.NewPaymentMethodRepository(restClient)
	purchaseRepo := reststore.NewPurchaseRepository(restClient)
	catalogRepo := reststore.NewCatalogRepository(restClient)
	contractorRepo := reststore.NewContractorRepository(restClient)

	stripeClient := processor.NewStripeClient(cfg.Stripe.SecretKey)

	paymentMethods := services.NewPaymentMethodService(stripeClient, methodRepo, profileRepo, logger)
	subscriptions := services.NewSubscriptionService(stripeClient, profileRepo, methodRepo, logger)
	purchases := services.NewPurchaseService(stripeClient, purchaseRepo, catalogRepo, profileRepo, methodRepo, logger)
	catalog := services.NewCatalogService(stripeClient, catalogRepo, logger)
	profiles := services.NewProfileService(profileRepo)
	contractors := services.NewContractorService(stripeClient, contractorRepo, profileRepo, logger)
	auth := services.NewAuthService(cfg.Auth.ProjectID, cfg.Auth.KeysURL, services.NewPublicKeyCache())

	router := handlers.NewRouter(handlers.Handlers{
		PaymentMethods: handlers.NewPaymentMethodHandler(paymentMethods, cfg.Stripe.PublishableKey),
		Subscriptions:  handlers.NewSubscriptionHandler(subscriptions),
		Purchases:      handlers.NewPurchaseHandler(purchases),
		Catalog:        handlers.NewCatalogHandler(catalog),
		Profiles:       handlers.NewProfileHandler(profiles),
		Contractors:    handlers.NewContractorHandler(contractors),
		Sessions:       handlers.NewSessionHandler(sessions),
		Stores:         handlers.NewStoreHandler(stores),
		System:         handlers.NewSystemHandler(sessions, tracker, cfg.Supabase.URL),
	}, auth, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("server stopped")
}
