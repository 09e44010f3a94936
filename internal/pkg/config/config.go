package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, endpoints, secrets)
// - default: Values common across all environments (timeouts, limits, formats)
// - optional integrations (Redis, AMQP) are disabled while their address is empty
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	CORS    CORSConfig
	Log     LogConfig
	SWS     SWSConfig
	Session SessionConfig
	Relay   RelayConfig
	Storage StorageConfig
	Redis   RedisConfig
	Audit   AuditConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Content-Encoding,Accept,X-Auth,X-Sws-Session"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

// SWSConfig describes the reservation back-end endpoint. ErrorMarkers are
// matched textually against every response body.
type SWSConfig struct {
	Endpoint      string        `envconfig:"SWS_ENDPOINT" required:"true"`
	CallTimeout   time.Duration `envconfig:"SWS_CALL_TIMEOUT" default:"20s"`
	ErrorMarkers  []string      `envconfig:"SWS_ERROR_MARKERS" default:"<Error,:Error,NotProcessed"`
	PCC           string        `envconfig:"SWS_PCC" default:""`
	DefaultCabin  string        `envconfig:"SWS_DEFAULT_CABIN" default:"All"`
	AuthTokenType string        `envconfig:"SWS_AUTH_TOKEN_TYPE" default:"SESSION"`
}

type SessionConfig struct {
	IdleTTL time.Duration `envconfig:"SESSION_IDLE_TTL" default:"30m"`
}

type RelayConfig struct {
	SharedSecret string `envconfig:"RELAY_SHARED_SECRET" required:"true"`
	MaxBodyBytes int64  `envconfig:"RELAY_MAX_BODY_BYTES" default:"2097152"`
	KeyPrefix    string `envconfig:"RELAY_KEY_PREFIX" default:"enhanced-seatmap"`
}

type StorageConfig struct {
	Endpoint  string `envconfig:"S3_ENDPOINT" required:"true"`
	AccessKey string `envconfig:"S3_ACCESS_KEY" required:"true"`
	SecretKey string `envconfig:"S3_SECRET_KEY" required:"true"`
	Bucket    string `envconfig:"S3_BUCKET" default:"seatmap-audit"`
	Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	UseSSL    bool   `envconfig:"S3_USE_SSL" default:"true"`
}

type RedisConfig struct {
	Addr           string        `envconfig:"REDIS_ADDR" default:""`
	Password       string        `envconfig:"REDIS_PASSWORD" default:""`
	DB             int           `envconfig:"REDIS_DB" default:"0"`
	Capacity       int           `envconfig:"RATE_LIMIT_CAPACITY" default:"30"`
	RefillTokens   int           `envconfig:"RATE_LIMIT_REFILL_TOKENS" default:"1"`
	RefillInterval time.Duration `envconfig:"RATE_LIMIT_REFILL_INTERVAL" default:"2s"`
	KeyPrefix      string        `envconfig:"RATE_LIMIT_PREFIX" default:"rl:upload"`
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type AuditConfig struct {
	URL   string `envconfig:"AMQP_URL" default:""`
	Queue string `envconfig:"AUDIT_QUEUE" default:"seatmap.audit"`
}

func (c AuditConfig) Enabled() bool {
	return c.URL != ""
}

// LoadConfig reads an optional .env file before processing the environment.
// Variables already present in the environment take precedence.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		SWS: SWSConfig{
			Endpoint:      "http://localhost:18080/sws",
			CallTimeout:   2 * time.Second,
			ErrorMarkers:  []string{"<Error", ":Error", "NotProcessed"},
			DefaultCabin:  "All",
			AuthTokenType: "SESSION",
		},
		Session: SessionConfig{
			IdleTTL: 5 * time.Minute,
		},
		Relay: RelayConfig{
			SharedSecret: "test-secret",
			MaxBodyBytes: 2 << 20,
			KeyPrefix:    "enhanced-seatmap",
		},
		Storage: StorageConfig{
			Endpoint:  "localhost:19000",
			AccessKey: "minioadmin",
			SecretKey: "minioadmin",
			Bucket:    "seatmap-audit-test",
			Region:    "us-east-1",
			UseSSL:    false,
		},
		Redis: RedisConfig{
			Capacity:       30,
			RefillTokens:   1,
			RefillInterval: 2 * time.Second,
			KeyPrefix:      "rl:upload",
		},
		Audit: AuditConfig{
			Queue: "seatmap.audit",
		},
	}
}
