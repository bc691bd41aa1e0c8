package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort                    = "8080"
	defaultKeepaBaseURL            = "https://api.keepa.com"
	defaultKeepaDomainID           = 1 // amazon.com
	defaultKeepaOffers             = 20
	defaultKeepaStatsDays          = 365
	defaultKeepaTimeoutSeconds     = 30
	defaultKeepaRequestsPerSecond  = 5
	defaultSellerLookupConcurrency = 4
)

// Config is the process configuration, built once at startup and handed to
// constructors.
type Config struct {
	Port                    string
	GinMode                 string
	CORSAllowedOrigins      []string
	SellerLookupConcurrency int
	Keepa                   KeepaConfig
}

// KeepaConfig holds the Keepa API credentials and request parameters
type KeepaConfig struct {
	APIKey            string
	BaseURL           string
	DomainID          int
	Offers            int
	StatsDays         int
	Timeout           time.Duration
	RequestsPerSecond int
}

// LoadEnvFile loads a .env file into the environment if one exists.
// Variables already set in the environment win.
func LoadEnvFile(paths ...string) {
	if err := godotenv.Load(paths...); err != nil {
		log.Println("No .env file loaded, using environment variables")
	}
}

// Load reads the configuration from the environment
func Load() Config {
	cfg := Config{
		Port:                    envString("PORT", defaultPort),
		GinMode:                 os.Getenv("GIN_MODE"),
		SellerLookupConcurrency: envInt("SELLER_LOOKUP_CONCURRENCY", defaultSellerLookupConcurrency),
		Keepa: KeepaConfig{
			APIKey:            os.Getenv("KEEPA_API_KEY"),
			BaseURL:           strings.TrimRight(envString("KEEPA_BASE_URL", defaultKeepaBaseURL), "/"),
			DomainID:          envInt("KEEPA_DOMAIN_ID", defaultKeepaDomainID),
			Offers:            envInt("KEEPA_OFFERS", defaultKeepaOffers),
			StatsDays:         envInt("KEEPA_STATS_DAYS", defaultKeepaStatsDays),
			Timeout:           time.Duration(envInt("KEEPA_TIMEOUT_SECONDS", defaultKeepaTimeoutSeconds)) * time.Second,
			RequestsPerSecond: envInt("KEEPA_REQUESTS_PER_SECOND", defaultKeepaRequestsPerSecond),
		},
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
			}
		}
	}

	if cfg.Keepa.APIKey == "" {
		log.Println("Warning: KEEPA_API_KEY is not set, Keepa requests will be rejected")
	}

	return cfg
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// envInt parses a positive integer, falling back to the default otherwise
func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		log.Printf("Invalid %s=%q, using default %d", key, value, fallback)
		return fallback
	}
	return n
}
