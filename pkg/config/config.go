package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App            AppConfig
	Server         ServerConfig
	Database       DatabaseConfig
	JWT            JWTConfig
	Mailjet        MailjetConfig
	Redis          RedisConfig
	Gemini         GeminiConfig
	Checkout       CheckoutConfig
	Recommendation RecommendationConfig
	Catalog        CatalogConfig
	Worker         WorkerConfig
	Admin          AdminConfig
}

type MailjetConfig struct {
	MailjetBaseUrl           string
	MailjetBasicAuthUsername string
	MailjetBasicAuthPassword string
	MailjetSenderEmail       string
	MailjetSenderName        string
}

type AppConfig struct {
	Name             string
	Version          string
	Environment      string
	AppDeploymentUrl string
	AllowOrigins     []string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
	TTL       time.Duration
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type GeminiConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

type CheckoutConfig struct {
	ShopBaseURL string
	CartTTL     time.Duration
}

type RecommendationConfig struct {
	AntiAgingAge int
	WidenSteps   []string
}

type CatalogConfig struct {
	CacheSize   int
	CacheTTL    time.Duration
	LoadTimeout time.Duration
}

// AdminConfig seeds the first back office account when both are set.
type AdminConfig struct {
	Email    string
	Password string
}

type WorkerConfig struct {
	Enabled     bool
	Concurrency int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	cfg := &Config{
		App: AppConfig{
			Name:             getEnv("APP_NAME", "Alma Skin Guru"),
			Version:          getEnv("APP_VERSION", "1.0.0"),
			Environment:      getEnv("APP_ENV", "development"),
			AppDeploymentUrl: getEnv("APP_DEPLOYMENT_URL", "http://localhost:8080"),
			AllowOrigins:     getEnvList("APP_ALLOW_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"}),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "alma_skin_guru"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
			TTL:       getEnvDuration("JWT_TTL", 12*time.Hour),
		},
		Mailjet: MailjetConfig{
			MailjetBaseUrl:           getEnv("MAILJET_BASE_URL", ""),
			MailjetBasicAuthUsername: getEnv("MAILJET_BASIC_AUTH_USERNAME", ""),
			MailjetBasicAuthPassword: getEnv("MAILJET_BASIC_AUTH_PASSWORD", ""),
			MailjetSenderEmail:       getEnv("MAILJET_SENDER_EMAIL", ""),
			MailjetSenderName:        getEnv("MAILJET_SENDER_NAME", "Alma Skin Guru"),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			BaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Timeout:    getEnvDuration("GEMINI_TIMEOUT", 30*time.Second),
			MaxRetries: getEnvInt("GEMINI_MAX_RETRIES", 3),
		},
		Checkout: CheckoutConfig{
			ShopBaseURL: getEnv("SHOP_BASE_URL", ""),
			CartTTL:     getEnvDuration("CART_TTL", 7*24*time.Hour),
		},
		Recommendation: RecommendationConfig{
			AntiAgingAge: getEnvInt("RECO_ANTI_AGING_AGE", 40),
			WidenSteps:   getEnvList("RECO_WIDEN_STEPS", nil),
		},
		Catalog: CatalogConfig{
			CacheSize:   getEnvInt("CATALOG_CACHE_SIZE", 16),
			CacheTTL:    getEnvDuration("CATALOG_CACHE_TTL", 5*time.Minute),
			LoadTimeout: getEnvDuration("CATALOG_LOAD_TIMEOUT", 5*time.Second),
		},
		Worker: WorkerConfig{
			Enabled:     getEnv("WORKER_ENABLED", "true") == "true",
			Concurrency: getEnvInt("WORKER_CONCURRENCY", 5),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Recommendation.AntiAgingAge <= 0 {
		return nil, errors.New("anti aging age must be greater than 0")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultVal
	}

	return val
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultVal
	}

	return val
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key string, defaultVal []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
