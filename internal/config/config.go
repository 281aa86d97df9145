package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerAddress      string        `mapstructure:"SERVER_ADDRESS"`
	StaticDir          string        `mapstructure:"STATIC_DIR"`
	CORSAllowOrigins   string        `mapstructure:"CORS_ALLOW_ORIGINS"`
	MaxUploadBytes     int64         `mapstructure:"MAX_UPLOAD_BYTES"`
	StoreDriver        string        `mapstructure:"STORE_DRIVER"`
	DBSource           string        `mapstructure:"DB_SOURCE"`
	MongoURI           string        `mapstructure:"MONGODB_URI"`
	MongoDatabase      string        `mapstructure:"MONGODB_DATABASE"`
	MapsAPIKey         string        `mapstructure:"GOOGLE_MAPS_API_KEY"`
	ProviderBaseURL    string        `mapstructure:"PROVIDER_BASE_URL"`
	ProviderTimeout    time.Duration `mapstructure:"PROVIDER_TIMEOUT"`
	EnforceCoordRange  bool          `mapstructure:"ENFORCE_COORDINATE_RANGE"`
	RedisAddr          string        `mapstructure:"REDIS_ADDR"`
	RedisPassword      string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB            int           `mapstructure:"REDIS_DB"`
	ImportLockTTL      time.Duration `mapstructure:"IMPORT_LOCK_TTL"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	LogFormat          string        `mapstructure:"LOG_FORMAT"`
	OTELCollectorURL   string        `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTELServiceName    string        `mapstructure:"OTEL_SERVICE_NAME"`
	OTELInsecure       bool          `mapstructure:"OTEL_INSECURE"`
	ShutdownTimeout    time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	ServerReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	ServerWriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

// LoadConfig reads configuration from app.env in path, then lets environment
// variables override it. A missing file is not an error.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read config file: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to decode config: %w", err)
	}

	err = config.Validate()
	return config, err
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:5000")
	v.SetDefault("STATIC_DIR", "")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("STORE_DRIVER", DriverPostgres)
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("MONGODB_URI", "")
	v.SetDefault("MONGODB_DATABASE", "location_database")
	v.SetDefault("GOOGLE_MAPS_API_KEY", "")
	v.SetDefault("PROVIDER_BASE_URL", "https://maps.googleapis.com/maps/api")
	v.SetDefault("PROVIDER_TIMEOUT", 5*time.Second)
	v.SetDefault("ENFORCE_COORDINATE_RANGE", true)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("IMPORT_LOCK_TTL", 2*time.Minute)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_SERVICE_NAME", "customers-map")
	v.SetDefault("OTEL_INSECURE", true)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("SERVER_READ_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
}

// Validate checks the settings the process cannot start without.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DBSource == "" {
			return errors.New("config: DB_SOURCE is required for the postgres store")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("config: MONGODB_URI is required for the mongo store")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.ProviderTimeout <= 0 {
		return errors.New("config: PROVIDER_TIMEOUT must be positive")
	}
	return nil
}

// AllowedOrigins splits CORS_ALLOW_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
