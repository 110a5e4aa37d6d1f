package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Build-time fallbacks, set with -ldflags "-X ...". Mobile builds have no
// runtime environment, so credentials are baked in at compile time there.
var (
	BuildStripeSecretKey      string
	BuildStripePublishableKey string
	BuildSupabaseURL          string
	BuildSupabaseAnonKey      string
)

type Config struct {
	Server   ServerConfig
	Stripe   StripeConfig
	Supabase SupabaseConfig
	Auth     AuthConfig
	Vault    VaultConfig
}

type ServerConfig struct {
	Port        string
	Environment string
}

type StripeConfig struct {
	SecretKey      string
	PublishableKey string
}

type SupabaseConfig struct {
	URL     string
	AnonKey string
}

type AuthConfig struct {
	ProjectID string
	KeysURL   string
}

type VaultConfig struct {
	Dir        string
	Passphrase string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Stripe: StripeConfig{
			SecretKey:      getEnvWithFallback("STRIPE_SECRET_KEY", BuildStripeSecretKey),
			PublishableKey: getEnvWithFallback("STRIPE_PUBLISHABLE_KEY", BuildStripePublishableKey),
		},
		Supabase: SupabaseConfig{
			URL:     getEnvWithFallback("SUPABASE_URL", BuildSupabaseURL),
			AnonKey: getEnvWithFallback("SUPABASE_ANON_KEY", BuildSupabaseAnonKey),
		},
		Auth: AuthConfig{
			ProjectID: getEnv("FIREBASE_PROJECT_ID", ""),
			KeysURL:   getEnv("AUTH_KEYS_URL", "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"),
		},
		Vault: VaultConfig{
			Dir:        getEnv("VAULT_DIR", defaultVaultDir()),
			Passphrase: getEnv("VAULT_PASSPHRASE", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvWithFallback prefers the runtime environment and falls back to the
// value baked in at build time.
func getEnvWithFallback(key, buildValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return buildValue
}

func defaultVaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + "/aura"
	}
	return ".aura"
}
