package config

import (
	"log"

	"github.com/spf13/viper"
)

type WebServerConfig struct {
	Port            string `mapstructure:"port"`
	IP              string `mapstructure:"ip"`
	Scheme          string `mapstructure:"scheme"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

type RedisConfig struct {
	Address          string `mapstructure:"address"`
	Password         string `mapstructure:"password"`
	DB               int    `mapstructure:"db"`
	PoolSize         int    `mapstructure:"pool_size"`
	MinIdleConns     int    `mapstructure:"min_idle_conns"`
	OperationTimeout int    `mapstructure:"operation_timeout"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type CacheConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	MaxSizeMB   int  `mapstructure:"max_size_mb"`
	TTLSeconds  int  `mapstructure:"ttl_seconds"`
	CounterSize int  `mapstructure:"counter_size"`
}

// GitHubConfig holds the upstream Copilot metrics API settings.
type GitHubConfig struct {
	Token              string `mapstructure:"token"`
	Organization       string `mapstructure:"organization"`
	APIBaseURL         string `mapstructure:"api_base_url"` // override for tests/GHE
	RequestTimeout     int    `mapstructure:"request_timeout"`
	ResponseTTLSeconds int    `mapstructure:"response_ttl_seconds"` // 0 = keep until invalidated
}

// ROIConfig holds the constants the ROI calculator folds accepted lines with.
type ROIConfig struct {
	AvgLinesPerHour     float64 `mapstructure:"avg_lines_per_hour"`
	AvgHourlyRate       float64 `mapstructure:"avg_hourly_rate"`
	LicenseCostPerMonth float64 `mapstructure:"license_cost_per_month"`
}

// InsightRuleConfig is one declarative insight rule: when the named metric
// compares true against the threshold, the template is emitted.
type InsightRuleConfig struct {
	Metric    string  `mapstructure:"metric"`
	Operator  string  `mapstructure:"operator"`
	Threshold float64 `mapstructure:"threshold"`
	Template  string  `mapstructure:"template"`
}

type InsightsConfig struct {
	Rules []InsightRuleConfig `mapstructure:"rules"`
}

type Config struct {
	WebServer WebServerConfig `mapstructure:"webserver"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	GitHub    GitHubConfig    `mapstructure:"github"`
	ROI       ROIConfig       `mapstructure:"roi"`
	Insights  InsightsConfig  `mapstructure:"insights"`
}

func LoadConfig() (Config, error) {
	var config Config

	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Enable environment variable overrides (e.g. COPILOTDASH_GITHUB_TOKEN)
	viper.SetEnvPrefix("COPILOTDASH")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Error reading config file: %v", err)
		return config, err
	}

	if err := viper.Unmarshal(&config); err != nil {
		log.Printf("Unable to decode into struct: %v", err)
		return config, err
	}

	return config, nil
}

func MustLoadConfig() Config {
	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return config
}

func setDefaults() {
	// WebServer defaults
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.ip", "127.0.0.1")
	viper.SetDefault("webserver.scheme", "http")
	viper.SetDefault("webserver.read_timeout", 15)
	viper.SetDefault("webserver.write_timeout", 15)
	viper.SetDefault("webserver.shutdown_timeout", 30)

	// Redis defaults
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.min_idle_conns", 5)
	viper.SetDefault("redis.operation_timeout", 5)

	// Cache defaults
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_size_mb", 100)
	viper.SetDefault("cache.ttl_seconds", 300)      // 5 minutes
	viper.SetDefault("cache.counter_size", 1000000) // 1M keys

	// RateLimit defaults
	viper.SetDefault("ratelimit.requests_per_second", 10.0)
	viper.SetDefault("ratelimit.burst", 20)

	// GitHub defaults
	viper.SetDefault("github.token", "")
	viper.SetDefault("github.organization", "")
	viper.SetDefault("github.api_base_url", "")
	viper.SetDefault("github.request_timeout", 30)
	viper.SetDefault("github.response_ttl_seconds", 900) // 15 minutes

	// ROI defaults (lines/hour, currency/hour, currency/user/month)
	viper.SetDefault("roi.avg_lines_per_hour", 30.0)
	viper.SetDefault("roi.avg_hourly_rate", 75.0)
	viper.SetDefault("roi.license_cost_per_month", 19.0)
}
