package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultInferenceBaseURL = "https://models.github.ai/inference"
	DefaultInferenceModel   = "openai/gpt-4.1"
	DefaultSystemPrompt     = "You are an expert in agriculture, providing clear, actionable advice."
)

var (
	AppEnv       string
	IsStaging    bool
	IsProduction bool

	Port           string
	JWTSecret      string
	TokenTTLHours  int
	AllowedOrigins []string

	DBDriver    string
	DatabaseURL string
	RedisURL    string

	// inference gateway
	GitHubToken             string
	InferenceBaseURL        string
	InferenceModel          string
	InferenceSystemPrompt   string
	InferenceTimeoutSeconds int

	// EnvFileLoaded reports whether a .env file was read by Load.
	EnvFileLoaded bool
)

// loadAppEnv loads .env unless APP_ENV is production. A missing .env file is
// not an error outside production either; the host environment may be enough.
func loadAppEnv() {
	AppEnv = os.Getenv("APP_ENV")
	if AppEnv == "production" {
		return
	}
	EnvFileLoaded = godotenv.Load() == nil
}

// Load reads configuration from the environment into the package variables.
func Load() error {
	loadAppEnv()

	AppEnv = envOr("APP_ENV", "development")
	if !slices.Contains([]string{"development", "staging", "production"}, AppEnv) {
		return fmt.Errorf("APP_ENV must be 'development', 'staging' or 'production', got %q", AppEnv)
	}
	IsStaging = AppEnv == "staging"
	IsProduction = AppEnv == "production"

	Port = envOr("PORT", "5000")
	JWTSecret = os.Getenv("JWT_SECRET_KEY")
	TokenTTLHours = atoiOr(os.Getenv("TOKEN_TTL_HOURS"), 24)
	AllowedOrigins = splitList(envOr("CORS_ALLOWED_ORIGINS",
		"http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173"))

	DBDriver = strings.ToLower(envOr("DB_DRIVER", "sqlite"))
	DatabaseURL = envOr("DATABASE_URL", "pumppal.db")
	RedisURL = os.Getenv("REDIS_URL")

	GitHubToken = os.Getenv("GITHUB_TOKEN")
	InferenceBaseURL = envOr("INFERENCE_BASE_URL", DefaultInferenceBaseURL)
	InferenceModel = envOr("INFERENCE_MODEL", DefaultInferenceModel)
	InferenceSystemPrompt = envOr("INFERENCE_SYSTEM_PROMPT", DefaultSystemPrompt)
	InferenceTimeoutSeconds = atoiOr(os.Getenv("INFERENCE_TIMEOUT_SECONDS"), 0)

	if JWTSecret == "" {
		if IsProduction {
			return errors.New("JWT_SECRET_KEY must be set in production")
		}
		JWTSecret = "pumppal-dev-secret"
	}
	if !slices.Contains([]string{"sqlite", "mysql", "postgres"}, DBDriver) {
		return fmt.Errorf("DB_DRIVER must be sqlite, mysql or postgres, got %q", DBDriver)
	}
	if TokenTTLHours <= 0 {
		TokenTTLHours = 24
	}
	return nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
