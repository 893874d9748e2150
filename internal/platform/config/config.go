package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// MatchingSettings are the tunable knobs of the matching engine. The weights
// and thresholds come from the environment so finance can adjust them without
// a deploy.
type MatchingSettings struct {
	AmountWeight         float64
	NameWeight           float64
	ReferenceWeight      float64
	DateWeight           float64
	AutoAcceptThreshold  float64
	SuggestThreshold     float64
	AmountToleranceCents int64
	DateGraceDays        int
	DateOuterBoundDays   int
}

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	// APIKeyHash is the bcrypt hash of the platform API key.
	APIKeyHash string
	// RateLimit is a ulule/limiter formatted rate ("60-M" = 60 per minute)
	// applied to statement uploads.
	RateLimit string
	Matching  MatchingSettings
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("API_KEY_HASH", "")
	viper.SetDefault("UPLOAD_RATE_LIMIT", "60-M")

	viper.SetDefault("MATCH_AMOUNT_WEIGHT", 0.4)
	viper.SetDefault("MATCH_NAME_WEIGHT", 0.3)
	viper.SetDefault("MATCH_REFERENCE_WEIGHT", 0.2)
	viper.SetDefault("MATCH_DATE_WEIGHT", 0.1)
	viper.SetDefault("MATCH_AUTO_ACCEPT_THRESHOLD", 0.85)
	viper.SetDefault("MATCH_SUGGEST_THRESHOLD", 0.5)
	viper.SetDefault("MATCH_AMOUNT_TOLERANCE_CENTS", 10)
	viper.SetDefault("MATCH_DATE_GRACE_DAYS", 5)
	viper.SetDefault("MATCH_DATE_OUTER_BOUND_DAYS", 30)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.RateLimit = viper.GetString("UPLOAD_RATE_LIMIT")

	cfg.APIKeyHash = viper.GetString("API_KEY_HASH")
	if cfg.APIKeyHash == "" {
		log.Println("Warning: API_KEY_HASH environment variable not set. All authenticated routes will reject requests.")
	}

	cfg.Matching = MatchingSettings{
		AmountWeight:         viper.GetFloat64("MATCH_AMOUNT_WEIGHT"),
		NameWeight:           viper.GetFloat64("MATCH_NAME_WEIGHT"),
		ReferenceWeight:      viper.GetFloat64("MATCH_REFERENCE_WEIGHT"),
		DateWeight:           viper.GetFloat64("MATCH_DATE_WEIGHT"),
		AutoAcceptThreshold:  viper.GetFloat64("MATCH_AUTO_ACCEPT_THRESHOLD"),
		SuggestThreshold:     viper.GetFloat64("MATCH_SUGGEST_THRESHOLD"),
		AmountToleranceCents: viper.GetInt64("MATCH_AMOUNT_TOLERANCE_CENTS"),
		DateGraceDays:        viper.GetInt("MATCH_DATE_GRACE_DAYS"),
		DateOuterBoundDays:   viper.GetInt("MATCH_DATE_OUTER_BOUND_DAYS"),
	}

	return cfg, nil
}
