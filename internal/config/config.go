package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/prjrating/sellerrating/pkg/config"
	"github.com/prjrating/sellerrating/pkg/database"
	"github.com/prjrating/sellerrating/pkg/tracing"
)

const defaultJWTSecret = "change-this-to-a-secure-secret"

// Notification delivery modes.
const (
	NotificationModeDirect = "direct"
	NotificationModeKafka  = "kafka"
)

// Config holds all configuration for the seller rating service.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"seller-rating"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort            int           `env:"HTTP_PORT" envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout     time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	PublicBaseURL       string        `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	CORSAllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	PprofAllowedCIDRs   []string      `env:"PPROF_ALLOWED_CIDRS" envSeparator:","`
	PublicCacheMaxAge   int           `env:"PUBLIC_CACHE_MAX_AGE" envDefault:"30"`
	TopSellersPageSize  int           `env:"TOP_SELLERS_PAGE_SIZE" envDefault:"10"`
	SlowQueryThreshold  time.Duration `env:"SLOW_QUERY_THRESHOLD" envDefault:"200ms"`
	NotificationMode    string        `env:"NOTIFICATION_MODE" envDefault:"direct"`
	ConfirmationCodeTTL time.Duration `env:"CONFIRMATION_CODE_TTL" envDefault:"24h"`
	ResetCodeTTL        time.Duration `env:"RESET_CODE_TTL" envDefault:"30m"`
	BcryptCost          int           `env:"BCRYPT_COST" envDefault:"12"`
	RateLimitRPS        float64       `env:"RATE_LIMIT_RPS" envDefault:"1"`
	RateLimitBurst      int           `env:"RATE_LIMIT_BURST" envDefault:"5"`

	// PostgreSQL
	PostgresHost     string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int           `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string        `env:"POSTGRES_USER" envDefault:"rating"`
	PostgresPass     string        `env:"POSTGRES_PASSWORD" envDefault:"rating_secret"`
	PostgresDB       string        `env:"POSTGRES_DB" envDefault:"rating_db"`
	PostgresSSL      string        `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	PostgresMaxConns int32         `env:"POSTGRES_MAX_CONNS" envDefault:"20"`
	PostgresMinConns int32         `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	PostgresConnLife time.Duration `env:"POSTGRES_MAX_CONN_LIFETIME" envDefault:"1h"`
	PostgresConnIdle time.Duration `env:"POSTGRES_MAX_CONN_IDLE_TIME" envDefault:"30m"`

	// Redis
	RedisHost        string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort        int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	RedisPoolSize    int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RedisDialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`

	// Kafka, used when NotificationMode is "kafka"
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaGroupID string   `env:"KAFKA_GROUP_ID" envDefault:"seller-rating-notifications"`

	// JWT
	JWTSecret string        `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"24h"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"seller-rating"`

	// SMTP; an empty host logs emails instead of sending them.
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"no-reply@seller-rating.local"`

	Tracing tracing.Config
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load seller-rating config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	switch c.NotificationMode {
	case NotificationModeDirect:
	case NotificationModeKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required when NOTIFICATION_MODE=%s", NotificationModeKafka)
		}
	default:
		return fmt.Errorf("invalid NOTIFICATION_MODE %q: want %q or %q",
			c.NotificationMode, NotificationModeDirect, NotificationModeKafka)
	}

	if c.JWTExpiry <= 0 || c.ConfirmationCodeTTL <= 0 || c.ResetCodeTTL <= 0 {
		return fmt.Errorf("JWT_EXPIRY, CONFIRMATION_CODE_TTL and RESET_CODE_TTL must be positive")
	}

	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}

	if c.Environment != "development" {
		if c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", c.Environment)
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(c.JWTSecret))
		}
	}
	return nil
}

// Postgres returns the connection settings for database.NewPostgresPool.
func (c *Config) Postgres() *database.PostgresConfig {
	return &database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPass,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSL,
		MaxConns:        c.PostgresMaxConns,
		MinConns:        c.PostgresMinConns,
		MaxConnLifetime: c.PostgresConnLife,
		MaxConnIdleTime: c.PostgresConnIdle,
	}
}

// Redis returns the connection settings for database.NewRedisClient.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,

		PoolSize:    c.RedisPoolSize,
		DialTimeout: c.RedisDialTimeout,
	}
}

// KafkaEnabled reports whether notifications go through Kafka.
func (c *Config) KafkaEnabled() bool {
	return c.NotificationMode == NotificationModeKafka
}
