package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var (
	// ErrReadConfig возвращается, если файл конфигурации не удалось прочитать
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается, если конфигурация не прошла валидацию
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMongo    = "mongo"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"

	NotifyDriverStub     = "stub"
	NotifyDriverSendGrid = "sendgrid"
	NotifyDriverSES      = "ses"
)

type Config struct {
	Server       ServerConfig       `toml:"server"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Storage      StorageConfig      `toml:"storage"`
	Database     DatabaseConfig     `toml:"database"`
	Mongo        MongoConfig        `toml:"mongo"`
	Sessions     SessionsConfig     `toml:"sessions"`
	Redis        RedisConfig        `toml:"redis"`
	Availability AvailabilityConfig `toml:"availability"`
	Payment      PaymentConfig      `toml:"payment"`
	Notify       NotifyConfig       `toml:"notify"`
	SendGrid     SendGridConfig     `toml:"sendgrid"`
	SES          SESConfig          `toml:"ses"`
	Queue        QueueConfig        `toml:"queue"`
	RateLimit    RateLimitConfig    `toml:"ratelimit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// StorageConfig где хранятся подтвержденные бронирования: postgres или mongo
type StorageConfig struct {
	Driver string `toml:"driver"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL строка подключения для golang-migrate
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	Timeout    int    `toml:"timeout"`
}

type SessionsConfig struct {
	Store      string `toml:"store"`
	TTLMinutes int    `toml:"ttl_minutes"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type AvailabilityConfig struct {
	HorizonDays int `toml:"horizon_days"`
}

type PaymentConfig struct {
	TimeoutMinutes int    `toml:"timeout_minutes"`
	PublicBaseURL  string `toml:"public_base_url"`
	MerchantName   string `toml:"merchant_name"`
}

type NotifyConfig struct {
	Driver         string `toml:"driver"`
	FromEmail      string `toml:"from_email"`
	FromName       string `toml:"from_name"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type SendGridConfig struct {
	APIKey string `toml:"api_key"`
}

type SESConfig struct {
	Region string `toml:"region"`
}

// QueueConfig асинхронная отправка уведомлений через asynq (redis из секции [redis])
type QueueConfig struct {
	Enabled     bool `toml:"enabled"`
	Concurrency int  `toml:"concurrency"`
	MaxRetry    int  `toml:"max_retry"`
}

type RateLimitConfig struct {
	Enabled        bool     `toml:"enabled"`
	RPS            float64  `toml:"rps"`
	Burst          int      `toml:"burst"`
	TrustedProxies []string `toml:"trusted_proxies"` // IP или CIDR; пусто - заголовки прокси игнорируются
}

// Load читает конфигурацию из TOML файла, применяет переменные окружения
// (включая локальный .env) и значения по умолчанию
func Load(path string) (*Config, error) {
	// .env нужен только для локальной разработки, его отсутствие не ошибка
	_ = godotenv.Load()

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Mongo.URI, "MONGO_URI")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.SendGrid.APIKey, "SENDGRID_API_KEY")
	setString(&c.SES.Region, "AWS_REGION")
	setString(&c.Payment.PublicBaseURL, "PUBLIC_BASE_URL")
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "consultation-service"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverPostgres
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "consultations"
	}
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = "bookings"
	}
	if c.Mongo.Timeout == 0 {
		c.Mongo.Timeout = 10
	}
	if c.Sessions.Store == "" {
		c.Sessions.Store = SessionStoreMemory
	}
	if c.Sessions.TTLMinutes == 0 {
		c.Sessions.TTLMinutes = 120
	}
	if c.Availability.HorizonDays == 0 {
		c.Availability.HorizonDays = 14
	}
	if c.Payment.TimeoutMinutes == 0 {
		c.Payment.TimeoutMinutes = 15
	}
	if c.Payment.MerchantName == "" {
		c.Payment.MerchantName = "VEXA Digital"
	}
	if c.Notify.Driver == "" {
		c.Notify.Driver = NotifyDriverStub
	}
	if c.Notify.TimeoutSeconds == 0 {
		c.Notify.TimeoutSeconds = 10
	}
	if c.Queue.Concurrency == 0 {
		c.Queue.Concurrency = 5
	}
	if c.Queue.MaxRetry == 0 {
		c.Queue.MaxRetry = 5
	}
	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 5
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 20
	}
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database host and dbname are required for postgres storage", ErrInvalidConfig)
		}
	case StorageDriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("%w: mongo uri is required for mongo storage", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	switch c.Sessions.Store {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis addr is required for redis session store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown session store %q", ErrInvalidConfig, c.Sessions.Store)
	}

	switch c.Notify.Driver {
	case NotifyDriverStub:
	case NotifyDriverSendGrid:
		if c.SendGrid.APIKey == "" {
			return fmt.Errorf("%w: sendgrid api key is required", ErrInvalidConfig)
		}
	case NotifyDriverSES:
		if c.SES.Region == "" {
			return fmt.Errorf("%w: ses region is required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown notify driver %q", ErrInvalidConfig, c.Notify.Driver)
	}

	if c.Notify.Driver != NotifyDriverStub && c.Notify.FromEmail == "" {
		return fmt.Errorf("%w: notify from_email is required", ErrInvalidConfig)
	}

	if c.Queue.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis addr is required for notification queue", ErrInvalidConfig)
	}

	if c.Payment.PublicBaseURL == "" {
		return fmt.Errorf("%w: payment public_base_url is required", ErrInvalidConfig)
	}

	if c.Availability.HorizonDays < 1 {
		return fmt.Errorf("%w: availability horizon_days must be positive", ErrInvalidConfig)
	}

	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}
