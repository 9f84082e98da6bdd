package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the runtime configuration for the Wardrobify backend.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Ingest      IngestConfig      `mapstructure:"ingest"`
	Relay       RelayConfig       `mapstructure:"relay"`
	Services    ServicesConfig    `mapstructure:"services"`
	Bridge      BridgeConfig      `mapstructure:"bridge"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
}

// ServerConfig configures the HTTP server and session behaviour.
type ServerConfig struct {
	Port       int           `mapstructure:"port"`
	LogLevel   string        `mapstructure:"log_level"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	SeedDemo   bool          `mapstructure:"seed_demo"`
}

// DatabaseConfig describes connection options for the supported databases.
type DatabaseConfig struct {
	Driver        string            `mapstructure:"driver"`
	Path          string            `mapstructure:"path"`
	DSN           string            `mapstructure:"dsn"`
	Host          string            `mapstructure:"host"`
	Port          int               `mapstructure:"port"`
	Name          string            `mapstructure:"name"`
	User          string            `mapstructure:"user"`
	Password      string            `mapstructure:"password"`
	Options       map[string]string `mapstructure:"options"`
	RetryAttempts int               `mapstructure:"retry_attempts"`
	RetryDelay    time.Duration     `mapstructure:"retry_delay"`
}

// CacheConfig describes cache backends.
type CacheConfig struct {
	Redis RedisCacheConfig `mapstructure:"redis"`
}

// RedisCacheConfig holds Redis connection options.
type RedisCacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Address  string        `mapstructure:"address"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// IngestConfig holds the shared key machines use to submit readings.
type IngestConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// RelayConfig tunes the websocket telemetry relay.
type RelayConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// ServicesConfig points at the downstream services the recommendation
// pipeline depends on.
type ServicesConfig struct {
	GeocoderEndpoint string        `mapstructure:"geocoder_endpoint"`
	WeatherEndpoint  string        `mapstructure:"weather_endpoint"`
	AIEndpoint       string        `mapstructure:"ai_endpoint"`
	Email            string        `mapstructure:"email"`
	StudentID        string        `mapstructure:"student_id"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

// BridgeConfig configures the MQTT bridge binary.
type BridgeConfig struct {
	Broker    string        `mapstructure:"broker"`
	BaseTopic string        `mapstructure:"base_topic"`
	ClientID  string        `mapstructure:"client_id"`
	ServerURL string        `mapstructure:"server_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// MaintenanceConfig controls the background cleanup job.
type MaintenanceConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	Schedule         string        `mapstructure:"schedule"`
	ReadingRetention time.Duration `mapstructure:"reading_retention"`
}

// LoadConfig initialises application configuration using Viper with sensible defaults.
// A .env file is applied first when present so container setups keep working.
func LoadConfig(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix("WARDROBIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.session_ttl", "24h")
	v.SetDefault("server.seed_demo", false)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/wardrobify.sqlite")
	v.SetDefault("database.retry_attempts", 12)
	v.SetDefault("database.retry_delay", "5s")

	v.SetDefault("cache.redis.enabled", false)
	v.SetDefault("cache.redis.address", "127.0.0.1:6379")
	v.SetDefault("cache.redis.username", "")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.timeout", "5s")

	v.SetDefault("ingest.api_key", "")

	v.SetDefault("relay.interval", "3s")

	v.SetDefault("services.geocoder_endpoint", "https://nominatim.openstreetmap.org/search")
	v.SetDefault("services.weather_endpoint", "https://api.weather.gov")
	v.SetDefault("services.ai_endpoint", "https://ece140-wi25-api.frosty-sky-f43d.workers.dev/api/v1/ai/complete")
	v.SetDefault("services.timeout", "15s")

	v.SetDefault("bridge.broker", "tcp://broker.emqx.io:1883")
	v.SetDefault("bridge.base_topic", "")
	v.SetDefault("bridge.client_id", "wardrobify-bridge")
	v.SetDefault("bridge.server_url", "http://localhost:8000")
	v.SetDefault("bridge.timeout", "10s")

	v.SetDefault("maintenance.enabled", true)
	v.SetDefault("maintenance.schedule", "@hourly")
	v.SetDefault("maintenance.reading_retention", "720h") // 30 days
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
