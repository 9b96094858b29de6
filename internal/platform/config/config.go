package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL          string
	Port                 string
	IsProduction         bool
	EnableDBCheck        bool
	JWTSecret            string
	JWTExpiryDuration    time.Duration
	JWTIssuer            string
	FunctionalCurrency   string
	LiabilityRateSide    domain.RateSide
	AccountMapFile       string
	AutoAccrualOnStartup bool
	RateLimit            string
	CORSAllowedOrigins   []string

	// AccountMap is loaded from AccountMapFile, or the built-in defaults.
	AccountMap AccountMap
}

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "debt-ledger")
	viper.SetDefault("FUNCTIONAL_CURRENCY", "ARS")
	viper.SetDefault("LIABILITY_RATE_SIDE", string(domain.RateSell))
	viper.SetDefault("ACCOUNT_MAP_FILE", "")
	viper.SetDefault("AUTO_ACCRUAL_ON_STARTUP", true)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:          viper.GetString("PGSQL_URL"),
		Port:                 viper.GetString("PORT"),
		IsProduction:         viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:        viper.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:            viper.GetString("JWT_SECRET"),
		JWTIssuer:            viper.GetString("JWT_ISSUER"),
		FunctionalCurrency:   strings.ToUpper(strings.TrimSpace(viper.GetString("FUNCTIONAL_CURRENCY"))),
		LiabilityRateSide:    domain.RateSide(strings.ToUpper(viper.GetString("LIABILITY_RATE_SIDE"))),
		AccountMapFile:       viper.GetString("ACCOUNT_MAP_FILE"),
		AutoAccrualOnStartup: viper.GetBool("AUTO_ACCRUAL_ON_STARTUP"),
		RateLimit:            viper.GetString("RATE_LIMIT"),
	}

	if cfg.DatabaseURL == "" {
		slog.Warn("PGSQL_URL environment variable not set")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		slog.Warn("JWT_SECRET environment variable not set, using default insecure key")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiry = time.Hour
		slog.Warn("Invalid JWT_EXPIRY_DURATION, defaulting", slog.String("value", jwtExpiryStr), slog.Duration("default", jwtExpiry))
	}
	cfg.JWTExpiryDuration = jwtExpiry

	switch cfg.LiabilityRateSide {
	case domain.RateBuy, domain.RateSell, domain.RateMid:
	default:
		return nil, fmt.Errorf("invalid LIABILITY_RATE_SIDE %q", cfg.LiabilityRateSide)
	}
	if len(cfg.FunctionalCurrency) != 3 {
		return nil, fmt.Errorf("invalid FUNCTIONAL_CURRENCY %q", cfg.FunctionalCurrency)
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	cfg.AccountMap = DefaultAccountMap()
	if cfg.AccountMapFile != "" {
		cfg.AccountMap, err = LoadAccountMap(cfg.AccountMapFile)
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
