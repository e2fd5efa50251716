package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server" json:"server"`

	// MySQL holds users and friend relationships
	Database DatabaseConfig `yaml:"database" json:"database"`

	// MongoDB holds messages and GridFS images
	MongoDB MongoDBConfig `yaml:"mongodb" json:"mongodb"`

	Redis RedisConfig `yaml:"redis" json:"redis"`

	Kafka KafkaConfig `yaml:"kafka" json:"kafka"`

	Auth AuthConfig `yaml:"auth" json:"auth"`

	Media MediaConfig `yaml:"media" json:"media"`

	Delivery DeliveryConfig `yaml:"delivery" json:"delivery"`

	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	Storage StorageConfig `yaml:"storage" json:"storage"`

	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port             string `yaml:"port" json:"port"`
	Host             string `yaml:"host" json:"host"`
	HealthPort       string `yaml:"health_port" json:"health_port"` // grpc health endpoint
	MediaServicePort string `yaml:"media_port" json:"media_port"`
	MediaBaseURL     string `yaml:"media_base_url" json:"media_base_url"`
	ReadTimeout      int    `yaml:"read_timeout" json:"read_timeout"`   // seconds
	WriteTimeout     int    `yaml:"write_timeout" json:"write_timeout"` // seconds
	Environment      string `yaml:"environment" json:"environment"`     // development, staging, production
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string `yaml:"host" json:"host"`
	Port         string `yaml:"port" json:"port"`
	Username     string `yaml:"username" json:"username"`
	Password     string `yaml:"password" json:"password"`
	DatabaseName string `yaml:"database_name" json:"database_name"`
	MaxOpenConns int    `yaml:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns" json:"max_idle_conns"`
}

type MongoDBConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     string `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	Database string `yaml:"database" json:"database"`
	Timeout  int    `yaml:"timeout" json:"timeout"` // per operation, seconds
}

// RedisConfig is optional; an empty Addr disables presence and the cross-instance relay
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
}

// KafkaConfig is optional; no brokers means message events are not published
type KafkaConfig struct {
	Brokers []string `yaml:"brokers" json:"brokers"`
	Topic   string   `yaml:"topic" json:"topic"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" json:"-"`
	TokenTTL  int    `yaml:"token_ttl" json:"token_ttl"` // hours
}

type MediaConfig struct {
	Backend       string `yaml:"backend" json:"backend"` // gridfs or s3
	MaxImageBytes int    `yaml:"max_image_bytes" json:"max_image_bytes"`
	S3Bucket      string `yaml:"s3_bucket" json:"s3_bucket"`
	S3Region      string `yaml:"s3_region" json:"s3_region"`
	S3PublicURL   string `yaml:"s3_public_url" json:"s3_public_url"`
}

// DeliveryConfig tunes live connections and the client side event buffer
type DeliveryConfig struct {
	SendBuffer     int      `yaml:"send_buffer" json:"send_buffer"`
	PingInterval   int      `yaml:"ping_interval" json:"ping_interval"`   // seconds
	WriteTimeout   int      `yaml:"write_timeout" json:"write_timeout"`   // seconds
	PresenceTTL    int      `yaml:"presence_ttl" json:"presence_ttl"`     // seconds
	RelayChannel   string   `yaml:"relay_channel" json:"relay_channel"`   // redis pub/sub channel
	ObserverPool   int      `yaml:"observer_pool" json:"observer_pool"`   // async observer workers
	PendingEvents  int      `yaml:"pending_events" json:"pending_events"` // client cache buffer size
	PendingWindow  int      `yaml:"pending_window" json:"pending_window"` // seconds
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
}

type RateLimitConfig struct {
	SendsPerMinute int `yaml:"sends_per_minute" json:"sends_per_minute"`
	Burst          int `yaml:"burst" json:"burst"`
}

type StorageConfig struct {
	Messages string `yaml:"messages" json:"messages"` // mongo or memory
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level" json:"level"`             // debug, info, warn, error
	Format     string `yaml:"format" json:"format"`           // json, console
	OutputPath string `yaml:"output_path" json:"output_path"` // stdout, stderr, or file path
}

// LoadConfig reads .env, then an optional yaml file, then environment overrides.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := defaults()

	path := getEnv("CONFIG_FILE", "config.yaml")
	if raw, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(cfg)

	if cfg.Server.MediaBaseURL == "" {
		cfg.Server.MediaBaseURL = fmt.Sprintf("http://localhost:%s/media", cfg.Server.Port)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:             "7003",
			Host:             "0.0.0.0",
			HealthPort:       "7013",
			MediaServicePort: "8080",
			ReadTimeout:      15,
			WriteTimeout:     15,
			Environment:      "development",
		},
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         "3306",
			Username:     "gochat",
			Password:     "gochat123",
			DatabaseName: "gochat",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
		MongoDB: MongoDBConfig{
			Host:     "localhost",
			Port:     "27017",
			Username: "admin",
			Password: "admin123",
			Database: "gochat",
			Timeout:  5,
		},
		Kafka: KafkaConfig{Topic: "chat.messages"},
		Auth:  AuthConfig{TokenTTL: 24},
		Media: MediaConfig{
			Backend:       "gridfs",
			MaxImageBytes: 5 << 20,
		},
		Delivery: DeliveryConfig{
			SendBuffer:    64,
			PingInterval:  30,
			WriteTimeout:  10,
			PresenceTTL:   90,
			RelayChannel:  "chat:relay",
			ObserverPool:  4,
			PendingEvents: 256,
			PendingWindow: 30,
		},
		RateLimit: RateLimitConfig{SendsPerMinute: 120, Burst: 20},
		Storage:   StorageConfig{Messages: "mongo"},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("CHAT_SERVICE_PORT", cfg.Server.Port)
	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.HealthPort = getEnv("HEALTH_PORT", cfg.Server.HealthPort)
	cfg.Server.MediaServicePort = getEnv("MEDIA_SERVER_PORT", cfg.Server.MediaServicePort)
	cfg.Server.MediaBaseURL = getEnv("MEDIA_BASE_URL", cfg.Server.MediaBaseURL)
	cfg.Server.ReadTimeout = getEnvAsInt("SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getEnvAsInt("SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.Environment = getEnv("ENVIRONMENT", cfg.Server.Environment)

	cfg.Database.Host = getEnv("MYSQL_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("MYSQL_PORT", cfg.Database.Port)
	cfg.Database.Username = getEnv("MYSQL_USERNAME", cfg.Database.Username)
	cfg.Database.Password = getEnv("MYSQL_PASSWORD", cfg.Database.Password)
	cfg.Database.DatabaseName = getEnv("MYSQL_DATABASE", cfg.Database.DatabaseName)
	cfg.Database.MaxOpenConns = getEnvAsInt("MYSQL_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = getEnvAsInt("MYSQL_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)

	cfg.MongoDB.Host = getEnv("MONGO_HOST", cfg.MongoDB.Host)
	cfg.MongoDB.Port = getEnv("MONGO_PORT", cfg.MongoDB.Port)
	cfg.MongoDB.Username = getEnv("MONGO_USERNAME", cfg.MongoDB.Username)
	cfg.MongoDB.Password = getEnv("MONGO_PASSWORD", cfg.MongoDB.Password)
	cfg.MongoDB.Database = getEnv("MONGO_DATABASE", cfg.MongoDB.Database)
	cfg.MongoDB.Timeout = getEnvAsInt("MONGO_TIMEOUT", cfg.MongoDB.Timeout)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.Kafka.Brokers = splitList(brokers)
	}
	cfg.Kafka.Topic = getEnv("KAFKA_TOPIC", cfg.Kafka.Topic)

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.TokenTTL = getEnvAsInt("JWT_TTL_HOURS", cfg.Auth.TokenTTL)

	cfg.Media.Backend = getEnv("MEDIA_BACKEND", cfg.Media.Backend)
	cfg.Media.MaxImageBytes = getEnvAsInt("MEDIA_MAX_IMAGE_BYTES", cfg.Media.MaxImageBytes)
	cfg.Media.S3Bucket = getEnv("S3_BUCKET", cfg.Media.S3Bucket)
	cfg.Media.S3Region = getEnv("S3_REGION", cfg.Media.S3Region)
	cfg.Media.S3PublicURL = getEnv("S3_PUBLIC_URL", cfg.Media.S3PublicURL)

	cfg.Delivery.SendBuffer = getEnvAsInt("DELIVERY_SEND_BUFFER", cfg.Delivery.SendBuffer)
	cfg.Delivery.PingInterval = getEnvAsInt("DELIVERY_PING_INTERVAL", cfg.Delivery.PingInterval)
	cfg.Delivery.WriteTimeout = getEnvAsInt("DELIVERY_WRITE_TIMEOUT", cfg.Delivery.WriteTimeout)
	cfg.Delivery.PresenceTTL = getEnvAsInt("DELIVERY_PRESENCE_TTL", cfg.Delivery.PresenceTTL)
	cfg.Delivery.RelayChannel = getEnv("DELIVERY_RELAY_CHANNEL", cfg.Delivery.RelayChannel)
	cfg.Delivery.ObserverPool = getEnvAsInt("DELIVERY_OBSERVER_POOL", cfg.Delivery.ObserverPool)
	if origins := getEnv("ALLOWED_ORIGINS", ""); origins != "" {
		cfg.Delivery.AllowedOrigins = splitList(origins)
	}

	cfg.RateLimit.SendsPerMinute = getEnvAsInt("RATE_LIMIT_SENDS_PER_MINUTE", cfg.RateLimit.SendsPerMinute)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", cfg.RateLimit.Burst)

	cfg.Storage.Messages = getEnv("MESSAGE_STORAGE", cfg.Storage.Messages)

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)
	cfg.Logging.OutputPath = getEnv("LOG_OUTPUT", cfg.Logging.OutputPath)
}

func (cfg *Config) validate() error {
	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch cfg.Media.Backend {
	case "gridfs":
	case "s3":
		if cfg.Media.S3Bucket == "" || cfg.Media.S3Region == "" {
			return errors.New("S3_BUCKET and S3_REGION are required for the s3 media backend")
		}
	default:
		return fmt.Errorf("unknown media backend %q", cfg.Media.Backend)
	}
	switch cfg.Storage.Messages {
	case "mongo", "memory":
	default:
		return fmt.Errorf("unknown message storage %q", cfg.Storage.Messages)
	}
	if cfg.Delivery.SendBuffer <= 0 {
		return errors.New("delivery send buffer must be positive")
	}
	return nil
}

func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func (cfg *Config) GetMongoURI() string {
	if cfg.MongoDB.Username == "" || cfg.MongoDB.Password == "" {
		return fmt.Sprintf("mongodb://%s:%s/%s", cfg.MongoDB.Host, cfg.MongoDB.Port, cfg.MongoDB.Database)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin",
		cfg.MongoDB.Username,
		cfg.MongoDB.Password,
		cfg.MongoDB.Host,
		cfg.MongoDB.Port,
		cfg.MongoDB.Database,
	)
}

func (cfg *Config) TokenTTL() time.Duration {
	return time.Duration(cfg.Auth.TokenTTL) * time.Hour
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

func (d DeliveryConfig) PingEvery() time.Duration      { return seconds(d.PingInterval) }
func (d DeliveryConfig) WriteWait() time.Duration      { return seconds(d.WriteTimeout) }
func (d DeliveryConfig) PresenceExpiry() time.Duration { return seconds(d.PresenceTTL) }
func (d DeliveryConfig) PendingTTL() time.Duration     { return seconds(d.PendingWindow) }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid integer for %s: %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
