package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"story-server/shared/utils"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration.
type Config struct {
	Env         string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`
	ServerPort  string `envconfig:"SERVER_PORT" default:"5000"`

	// PostgreSQL
	DBHost        string        `envconfig:"DB_HOST" required:"true"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" required:"true"`
	DBName        string        `envconfig:"DB_NAME" required:"true"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_IDLE_TIMEOUT" default:"5m"`
	DBConnRetries int           `envconfig:"DB_CONNECT_RETRIES" default:"30"`
	RunMigrations bool          `envconfig:"RUN_MIGRATIONS" default:"true"`
	// Секретное поле БЕЗ envconfig тега
	DBPassword string `ignored:"true"`

	// Redis для rate limiter. Пустой адрес - лимиты в памяти процесса.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPassword string `ignored:"true"`

	// RabbitMQ для событий уведомлений. Пустой URL - события не публикуются.
	RabbitMQURL     string `envconfig:"RABBITMQ_URL"`
	RabbitMQRetries int    `envconfig:"RABBITMQ_CONNECT_RETRIES" default:"10"`

	// JWT и пароли - секреты БЕЗ envconfig тегов
	JWTSecret      string        `ignored:"true"`
	PasswordPepper string        `ignored:"true"`
	AccessTokenTTL time.Duration `envconfig:"JWT_ACCESS_TOKEN_TTL" default:"168h"`

	// Лимит запросов на /auth/* с одного IP в минуту
	AuthRateLimit uint `envconfig:"AUTH_RATE_LIMIT" default:"10"`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	SecretsDir string `envconfig:"SECRETS_DIR" default:"/run/secrets"`
}

// GetAllowedOrigins splits the CORSAllowedOrigins string into a slice.
func (c *Config) GetAllowedOrigins() []string {
	if strings.TrimSpace(c.CORSAllowedOrigins) == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
}

// DatabaseURL builds the postgres DSN. Credentials are escaped.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// LoadConfig loads configuration from environment variables, an optional .env file and secret files.
func LoadConfig(envFilePath string) (*Config, error) {
	if envFilePath != "" {
		if _, err := os.Stat(envFilePath); err == nil {
			if err := godotenv.Load(envFilePath); err != nil {
				log.Printf("Warning: Could not load %s file: %v", envFilePath, err)
			} else {
				log.Printf("Loaded configuration from %s", envFilePath)
			}
		} else if !os.IsNotExist(err) {
			log.Printf("Warning: Error checking %s file: %v", envFilePath, err)
		}
	}

	var cfg Config
	// Загружаем НЕсекретные переменные из окружения
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}

	// Загружаем ОБЯЗАТЕЛЬНЫЕ секреты из файлов
	required := []struct {
		name string
		dst  *string
	}{
		{"db_password", &cfg.DBPassword},
		{"jwt_secret", &cfg.JWTSecret},
		{"password_pepper", &cfg.PasswordPepper},
	}
	for _, s := range required {
		value, err := utils.ReadSecret(cfg.SecretsDir, s.name)
		if err != nil {
			return nil, err
		}
		*s.dst = value
	}

	// НЕОБЯЗАТЕЛЬНЫЙ пароль Redis
	if redisPass, err := utils.ReadSecret(cfg.SecretsDir, "redis_password"); err == nil {
		cfg.RedisPassword = redisPass
	}

	return &cfg, nil
}
