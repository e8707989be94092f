package app

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
	_ "time/tzdata" // JAKBU_TIMEZONE must resolve in minimal images

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	httpapi "github.com/jakbu/jakbu/internal/jakbu/http"
	"github.com/jakbu/jakbu/pkg/httpx"
)

type Config struct {
	Env       string `env:"ENV"        envDefault:"dev"`  // dev, staging, prod
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"` // debug, info, warn, error
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"` // json, text
	Port      int    `env:"PORT"       envDefault:"8080"`

	Issuer       string `env:"JAKBU_ISSUER"        envDefault:"jakbu"`
	DatabaseFile string `env:"JAKBU_DATABASE_FILE" envDefault:"jakbu.db"`
	PepperFile   string `env:"JAKBU_PEPPER_FILE"   envDefault:"pepper"`

	SigningKeyFile     string        `env:"JAKBU_SIGNING_KEY_FILE"     envDefault:"signing.pem"`
	GenerateSigningKey bool          `env:"JAKBU_GENERATE_SIGNING_KEY" envDefault:"false"`
	AccessTTL          time.Duration `env:"JAKBU_ACCESS_TTL"           envDefault:"30m"`
	RefreshTTL         time.Duration `env:"JAKBU_REFRESH_TTL"          envDefault:"336h"`

	KakaoClientID      string        `env:"JAKBU_KAKAO_CLIENT_ID"`
	KakaoClientSecret  string        `env:"JAKBU_KAKAO_CLIENT_SECRET"`
	KakaoRedirectURI   string        `env:"JAKBU_KAKAO_REDIRECT_URI"`
	KakaoTokenURL      string        `env:"JAKBU_KAKAO_TOKEN_URL"`
	KakaoProfileURL    string        `env:"JAKBU_KAKAO_PROFILE_URL"`
	OAuthTimeout       time.Duration `env:"JAKBU_OAUTH_TIMEOUT"          envDefault:"5s"`
	FallbackNamePrefix string        `env:"JAKBU_FALLBACK_NAME_PREFIX"`

	ReminderInterval time.Duration `env:"JAKBU_REMINDER_INTERVAL" envDefault:"1m"`
	DailyHour        int           `env:"JAKBU_DAILY_HOUR"        envDefault:"9"`
	Timezone         string        `env:"JAKBU_TIMEZONE"          envDefault:"Asia/Seoul"`
	PushWebhookURL   string        `env:"JAKBU_PUSH_WEBHOOK_URL"`
	PushAuthHeader   string        `env:"JAKBU_PUSH_AUTH_HEADER"`

	StrictRequests   int           `env:"JAKBU_RATE_STRICT"   envDefault:"5"`
	ModerateRequests int           `env:"JAKBU_RATE_MODERATE" envDefault:"20"`
	LenientRequests  int           `env:"JAKBU_RATE_LENIENT"  envDefault:"100"`
	RateWindow       time.Duration `env:"JAKBU_RATE_WINDOW"   envDefault:"1m"`

	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

// LoadConfig reads the environment, after applying an optional .env file
// from the working directory. Variables already set win over the file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return ParseConfig()
}

// ParseConfig reads the process environment only.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.DailyHour < 0 || c.DailyHour > 23 {
		return fmt.Errorf("JAKBU_DAILY_HOUR must be 0-23, got %d", c.DailyHour)
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("JAKBU_TIMEZONE: %w", err)
	}
	return nil
}

// Location resolves Timezone. validate has already checked it.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RateLimits builds the router tiers. Burst equals the per-window budget.
func (c Config) RateLimits() httpapi.RateLimits {
	tier := func(n int) httpx.RateLimitConfig {
		return httpx.RateLimitConfig{RequestsPerWindow: n, Window: c.RateWindow, Burst: n}
	}
	return httpapi.RateLimits{
		Strict:   tier(c.StrictRequests),
		Moderate: tier(c.ModerateRequests),
		Lenient:  tier(c.LenientRequests),
	}
}
