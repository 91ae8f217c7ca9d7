package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config agrupa la configuración del proceso.
// Todo sale de env (o .env / config.yaml); los defaults sirven para modo dev.
type Config struct {
	AppPort string `mapstructure:"APP_PORT"`
	Env     string `mapstructure:"ENV"`
	AppName string `mapstructure:"APP_NAME"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// DB_DSN vacío => storage in-memory.
	DBDSN          string `mapstructure:"DB_DSN"`
	DBMaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBAutoMigrate  bool   `mapstructure:"DB_AUTO_MIGRATE"`

	// JWT_SECRET vacío => modo dev (headers X-Debug-*).
	JWTSecret string `mapstructure:"JWT_SECRET"`
	JWTIssuer string `mapstructure:"JWT_ISSUER"`

	// REDIS_URL vacío => cache en memoria.
	RedisURL          string        `mapstructure:"REDIS_URL"`
	AnalyticsCacheTTL time.Duration `mapstructure:"ANALYTICS_CACHE_TTL"`

	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	// TRUST_PROXY=true sólo detrás de un proxy propio: habilita X-Forwarded-For / X-Real-IP.
	TrustProxy bool `mapstructure:"TRUST_PROXY"`
	WaitlistRatePerMin int    `mapstructure:"WAITLIST_RATE_PER_MIN"`

	BaseCurrency string `mapstructure:"BASE_CURRENCY"`

	OTLPEndpoint    string        `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var keys = []string{
	"APP_PORT", "ENV", "APP_NAME",
	"LOG_LEVEL", "LOG_FORMAT",
	"DB_DSN", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_AUTO_MIGRATE",
	"JWT_SECRET", "JWT_ISSUER",
	"REDIS_URL", "ANALYTICS_CACHE_TTL",
	"CORS_ALLOWED_ORIGINS", "TRUST_PROXY", "WAITLIST_RATE_PER_MIN",
	"BASE_CURRENCY",
	"OTEL_EXPORTER_OTLP_ENDPOINT", "SHUTDOWN_TIMEOUT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("APP_NAME", "pet-care-marketplace")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "pet-care-marketplace")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("ANALYTICS_CACHE_TTL", "0s")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("TRUST_PROXY", false)
	v.SetDefault("WAITLIST_RATE_PER_MIN", 10)
	v.SetDefault("BASE_CURRENCY", "USD")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
}

// Load lee .env (si existe), config.yaml (si existe) y variables de entorno.
func Load() (*Config, error) {
	// .env es opcional; en prod las variables vienen del entorno.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	// AutomaticEnv no alcanza para Unmarshal si la key no tiene default ni está en archivo.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DBMaxOpenConns <= 0 {
		cfg.DBMaxOpenConns = 10
	}
	if cfg.DBMaxIdleConns <= 0 {
		cfg.DBMaxIdleConns = 5
	}
	if cfg.WaitlistRatePerMin <= 0 {
		cfg.WaitlistRatePerMin = 10
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	cfg.BaseCurrency = strings.ToUpper(strings.TrimSpace(cfg.BaseCurrency))

	return &cfg, nil
}

// Addr devuelve la dirección de escucha (":8080").
func (c *Config) Addr() string {
	p := strings.TrimSpace(c.AppPort)
	if p == "" {
		p = "8080"
	}
	return ":" + strings.TrimPrefix(p, ":")
}

// AllowedOrigins parsea CORS_ALLOWED_ORIGINS (CSV).
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
