package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/paradewx/parade-weather/internal/climate"
)

type AppConfig struct {
	Port string

	// HTTPTimeout bounds outbound calls to the record source and geocoder.
	// The POWER archive can take tens of seconds for a 39-year span.
	HTTPTimeout time.Duration

	// Years is the historical span fetched per location.
	Years climate.YearRange

	// Series cache: bounded LRU with TTL; a non-empty RedisAddr switches
	// to the Redis-backed cache instead.
	CacheMaxEntries int
	CacheTTL        time.Duration
	RedisAddr       string

	PowerBaseURL     string
	NominatimBaseURL string
	GeocodeUserAgent string

	// GoogleAPIKey, when set, selects the Google Maps geocoder backend.
	GoogleAPIKey string

	// Favorites are pre-warmed by the scheduler so interactive queries
	// against them hit the cache.
	Favorites    []climate.Location
	WarmInterval time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")

	httpTimeout, err := getenvDuration("HTTP_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = httpTimeout

	cfg.Years = climate.YearRange{
		Start: getenvInt("START_YEAR", climate.DefaultYearRange.Start),
		End:   getenvInt("END_YEAR", climate.DefaultYearRange.End),
	}
	if cfg.Years.Start > cfg.Years.End {
		return nil, fmt.Errorf("START_YEAR %d is after END_YEAR %d", cfg.Years.Start, cfg.Years.End)
	}

	cfg.CacheMaxEntries = getenvInt("CACHE_MAX_ENTRIES", 128)

	cacheTTL, err := getenvDuration("CACHE_TTL", "24h")
	if err != nil {
		return nil, err
	}
	if cacheTTL <= 0 {
		return nil, fmt.Errorf("CACHE_TTL must be positive")
	}
	cfg.CacheTTL = cacheTTL

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")

	cfg.PowerBaseURL = os.Getenv("POWER_BASE_URL")
	cfg.NominatimBaseURL = os.Getenv("NOMINATIM_BASE_URL")
	cfg.GeocodeUserAgent = getenvDefault("GEOCODE_USER_AGENT", "parade-weather/1.0")
	cfg.GoogleAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")

	favorites, err := parseFavorites(os.Getenv("FAVORITE_LOCATIONS"))
	if err != nil {
		return nil, err
	}
	cfg.Favorites = favorites

	warmInterval, err := getenvDuration("WARM_INTERVAL", "6h")
	if err != nil {
		return nil, err
	}
	cfg.WarmInterval = warmInterval

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "json")

	return cfg, nil
}

// parseFavorites parses "lat,lon;lat,lon" pairs, e.g.
// "40.7128,-74.0060;51.5074,-0.1278".
func parseFavorites(raw string) ([]climate.Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var locs []climate.Location
	for _, pair := range strings.Split(raw, ";") {
		parts := strings.Split(pair, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid FAVORITE_LOCATIONS entry %q", pair)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude in FAVORITE_LOCATIONS entry %q", pair)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude in FAVORITE_LOCATIONS entry %q", pair)
		}
		locs = append(locs, climate.Location{Lat: lat, Lon: lon})
	}
	return locs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
