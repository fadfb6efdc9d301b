package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	GinMode        string
	DBDriver       string
	DBDSN          string
	JWTSecret      string
	CORSOrigin     string
	GeminiAPIKey   string
	GeminiModel    string
	GeminiBaseURL  string
	WAAPIURL       string
	WAVerifyToken  string
	CheckoutBucket time.Duration
	WebhookRPS     int
	SeedDemo       bool
	DemoPhoneID    string
}

// Load reads configuration from the environment. Call godotenv.Load first to pick up .env.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		DBDriver:       getEnv("DB_DRIVER", "sqlite"),
		DBDSN:          getEnv("DB_DSN", "hellodine.db"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		CORSOrigin:     getEnv("CORS_ORIGIN", "*"),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:  getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		WAAPIURL:       getEnv("WA_API_URL", "https://graph.facebook.com/v19.0"),
		WAVerifyToken:  getEnv("WA_WEBHOOK_VERIFY_TOKEN", ""),
		CheckoutBucket: time.Duration(getEnvInt("CHECKOUT_BUCKET_SECONDS", 30)) * time.Second,
		WebhookRPS:     getEnvInt("WEBHOOK_RATE_LIMIT", 20),
		SeedDemo:       getEnvBool("SEED_DEMO"),
		DemoPhoneID:    getEnv("DEMO_PHONE_NUMBER_ID", "demo-phone-number-id"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvBool(key string) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && b
}
