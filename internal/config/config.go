package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/creatorstation/imgenhancer/internal/db"
	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	Port string `env:"PORT" default:"8080"`

	EnhanceEndpoint string        `env:"ENHANCE_ENDPOINT" default:"http://localhost:5000/enhance"`
	EnhanceTimeout  time.Duration `env:"ENHANCE_TIMEOUT" default:"0s"`

	StoreDriver     string `env:"STORE_DRIVER" default:"memory"`
	StoreQuotaBytes int    `env:"STORE_QUOTA_BYTES" default:"10485760"`
	RedisURL        string `env:"REDIS_URL"`
	MongoURI        string `env:"MONGO_URI"`
	MongoDatabase   string `env:"MONGO_DATABASE" default:"imgenhancer"`
	DatabaseURL     string `env:"DATABASE_URL"`

	SweepInterval time.Duration `env:"SWEEP_INTERVAL" default:"1h"`
	HistoryMaxAge time.Duration `env:"HISTORY_MAX_AGE" default:"24h"`

	PanelURL           string  `env:"PANEL_URL" default:"http://localhost:8080/"`
	OpenBrowser        bool    `env:"OPEN_BROWSER" default:"false"`
	MaxInputMegapixels float64 `env:"MAX_INPUT_MEGAPIXELS" default:"0"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c Config) Validate() error {
	return v.ValidateStruct(&c,
		v.Field(&c.Port, v.Required, is.Port),
		v.Field(&c.EnhanceEndpoint, v.Required, is.URL),
		v.Field(&c.EnhanceTimeout, v.Min(time.Duration(0))),
		v.Field(&c.StoreDriver, v.Required, v.In(db.DriverMemory, db.DriverRedis, db.DriverMongo, db.DriverPostgres)),
		v.Field(&c.StoreQuotaBytes, v.Min(0)),
		v.Field(&c.RedisURL, v.When(c.StoreDriver == db.DriverRedis, v.Required)),
		v.Field(&c.MongoURI, v.When(c.StoreDriver == db.DriverMongo, v.Required)),
		v.Field(&c.MongoDatabase, v.When(c.StoreDriver == db.DriverMongo, v.Required)),
		v.Field(&c.DatabaseURL, v.When(c.StoreDriver == db.DriverPostgres, v.Required)),
		v.Field(&c.SweepInterval, v.Min(time.Second)),
		v.Field(&c.HistoryMaxAge, v.Min(time.Second)),
		v.Field(&c.PanelURL, v.Required, is.URL),
		v.Field(&c.MaxInputMegapixels, v.Min(0.0)),
		v.Field(&c.LogLevel, v.In("debug", "info", "warn", "error")),
		v.Field(&c.LogFormat, v.In("text", "json")),
	)
}

// StoreOptions maps the store settings onto db.Options.
func (c Config) StoreOptions() db.Options {
	return db.Options{
		Driver:        c.StoreDriver,
		RedisURL:      c.RedisURL,
		MongoURI:      c.MongoURI,
		MongoDatabase: c.MongoDatabase,
		DatabaseURL:   c.DatabaseURL,
		QuotaBytes:    c.StoreQuotaBytes,
	}
}
