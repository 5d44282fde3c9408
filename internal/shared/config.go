package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPAddr       string
	MetricsAddr    string
	HandlerTimeout time.Duration
	CORSOrigins    []string

	ModelProvider    string
	ModelBaseURL     string
	ModelName        string
	ModelAPIKey      string
	GeminiAPIKey     string
	GeminiModel      string
	ModelTemperature float64
	ModelMaxTokens   int
	ModelTimeout     time.Duration
	ModelRPS         int
	ModelMaxInflight int
	FallbackDelay    time.Duration

	RedisAddr           string
	RedisPass           string
	RedisDB             int
	ModelCallsPerMinute int

	MySQLDSN string
}

// Load reads the environment, after merging an optional .env file (existing variables win).
func Load() Config {
	_ = godotenv.Load()

	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		HandlerTimeout: time.Duration(atoi("HANDLER_TIMEOUT_SECONDS", 75)) * time.Second,
		CORSOrigins:    list(env("CORS_ALLOWED_ORIGINS", "*")),

		ModelProvider:    strings.ToLower(env("MODEL_PROVIDER", ProviderOpenAI)),
		ModelBaseURL:     env("MODEL_BASE_URL", "https://api.deepinfra.com/v1/openai/"),
		ModelName:        env("MODEL_NAME", "deepseek-coder-33b-instruct"),
		ModelAPIKey:      env("MODEL_API_KEY", os.Getenv("DEEPSEEK_API_KEY")),
		GeminiAPIKey:     env("GEMINI_API_KEY", ""),
		GeminiModel:      env("GEMINI_MODEL", "gemini-2.0-flash"),
		ModelTemperature: atof("MODEL_TEMPERATURE", 0.7),
		ModelMaxTokens:   atoi("MODEL_MAX_TOKENS", 4000),
		ModelTimeout:     time.Duration(atoi("MODEL_TIMEOUT_SECONDS", 60)) * time.Second,
		ModelRPS:         atoi("MODEL_RPS", 5),
		ModelMaxInflight: atoi("MODEL_MAX_INFLIGHT", 16),
		FallbackDelay:    time.Duration(atoi("FALLBACK_DELAY_MS", 1000)) * time.Millisecond,

		RedisAddr:           env("REDIS_ADDR", ""),
		RedisPass:           env("REDIS_PASSWORD", ""),
		RedisDB:             atoi("REDIS_DB", 0),
		ModelCallsPerMinute: atoi("MODEL_CALLS_PER_MINUTE", 0),

		MySQLDSN: env("MYSQL_DSN", ""),
	}

	if c.ModelProvider != ProviderOpenAI && c.ModelProvider != ProviderGemini {
		log.Warn().Str("provider", c.ModelProvider).Msg("unknown MODEL_PROVIDER; using openai")
		c.ModelProvider = ProviderOpenAI
	}
	if c.ActiveKey() == "" {
		log.Warn().Str("provider", c.ModelProvider).Msg("model API key is empty; every request will use the fallback generator")
	}
	if c.HandlerTimeout <= c.ModelTimeout+c.FallbackDelay {
		c.HandlerTimeout = c.ModelTimeout + c.FallbackDelay + 5*time.Second
		log.Warn().Dur("handler_timeout", c.HandlerTimeout).Msg("HANDLER_TIMEOUT_SECONDS raised above model timeout")
	}
	return c
}

// ActiveKey is the credential for the selected provider.
func (c Config) ActiveKey() string {
	if c.ModelProvider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.ModelAPIKey
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer; using default")
	}
	return def
}

func atof(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not a number; using default")
	}
	return def
}

func list(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
