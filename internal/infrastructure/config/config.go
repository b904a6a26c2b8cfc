package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
	Otp   OtpConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=otp_service"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// OtpConfig is the code-lifecycle policy surface. The alphabet/length pair
// is an explicit entropy/usability tradeoff: the numeric default is
// human-typable and leans on the short TTL, alphanumeric at length >= 22
// reaches 128 bits and needs no such caveat.
type OtpConfig struct {
	// Backend selects the code store: "redis" (production, multi-instance)
	// or "memory" (single process only).
	Backend       string        `env:"OTP_BACKEND,          default=redis"`
	TTL           time.Duration `env:"OTP_TTL,              default=5m"`
	CodeLength    int           `env:"OTP_CODE_LENGTH,      default=6"`
	CodeAlphabet  string        `env:"OTP_CODE_ALPHABET,    default=numeric"`
	MaxAttempts   int           `env:"OTP_MAX_ATTEMPTS,     default=5"`
	BindPrincipal bool          `env:"OTP_BIND_PRINCIPAL,   default=false"`
	// StrictOperation makes validation cross-check the operation tag the
	// code was issued for. This is the deployed default.
	StrictOperation bool `env:"OTP_STRICT_OPERATION, default=true"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
