package service

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Environment string
	Port        string
	BaseURL     string
	DBPath      string

	Stripe struct {
		SecretKey     string
		WebhookSecret string
	}

	Printful struct {
		APIURL      string
		AccessToken string
		StoreID     string
	}

	Email struct {
		Host     string
		Port     int
		User     string
		Password string
		Internal string
	}

	Checkout struct {
		ShippingCents    int64
		AllowedCountries []string
	}

	// AllowFallbackVariant substitutes a hardcoded variant ID when a line
	// item cannot be resolved. Off by default: an unresolved item aborts the
	// order instead of fulfilling the wrong product.
	AllowFallbackVariant bool
}

func LoadConfig() (*Config, error) {
	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8000"),
		DBPath:      getEnv("DB_PATH", "./db/weirdroach.db"),
	}

	// Stripe
	config.Stripe.SecretKey = getEnv("STRIPE_SECRET_KEY", "")
	config.Stripe.WebhookSecret = getEnv("STRIPE_WEBHOOK_SECRET", "")

	// Printful
	config.Printful.APIURL = getEnv("PRINTFUL_API_URL", "https://api.printful.com")
	config.Printful.AccessToken = getEnv("PRINTFUL_ACCESS_TOKEN", "")
	if config.Printful.AccessToken == "" {
		// Older deployments used PRINTFUL_API_TOKEN
		config.Printful.AccessToken = getEnv("PRINTFUL_API_TOKEN", "")
	}
	config.Printful.StoreID = getEnv("PRINTFUL_STORE_ID", "")

	// Email
	config.Email.Host = getEnv("SMTP_HOST", "smtp.gmail.com")
	port := getEnv("SMTP_PORT", "465")
	if p, err := strconv.Atoi(port); err == nil {
		config.Email.Port = p
	} else {
		config.Email.Port = 465
	}
	config.Email.User = getEnv("EMAIL_USER", "")
	config.Email.Password = getEnv("EMAIL_PASSWORD", "")
	config.Email.Internal = getEnv("EMAIL_TO_INTERNAL", config.Email.User)

	// Checkout
	config.Checkout.ShippingCents = 500
	config.Checkout.AllowedCountries = []string{"US", "CA"}

	config.AllowFallbackVariant = getEnv("ALLOW_FALLBACK_VARIANT", "") == "true"

	return config, nil
}

// Validate reports the first missing required credential. Called once at
// startup so misconfiguration never surfaces as a per-request 500.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"STRIPE_SECRET_KEY", c.Stripe.SecretKey},
		{"STRIPE_WEBHOOK_SECRET", c.Stripe.WebhookSecret},
		{"PRINTFUL_ACCESS_TOKEN", c.Printful.AccessToken},
		{"PRINTFUL_STORE_ID", c.Printful.StoreID},
		{"EMAIL_USER", c.Email.User},
		{"EMAIL_PASSWORD", c.Email.Password},
	}

	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("missing required environment variable %s", r.name)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
