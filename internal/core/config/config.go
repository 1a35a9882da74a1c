package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Tracking holds the orchestration thresholds.
	Tracking TrackingConfig `mapstructure:",squash"`

	// Cache holds the outcome cache settings.
	Cache CacheConfig `mapstructure:",squash"`

	// Proxy holds the outbound proxy settings for extraction strategies.
	Proxy ProxyConfig `mapstructure:",squash"`
}

// TrackingConfig holds the orchestration thresholds. The numeric cutoffs are
// calibration knobs, not contract, so they all live in configuration.
type TrackingConfig struct {
	// SuccessThreshold is the minimum event confidence that ends the fallback
	// chain early.
	SuccessThreshold float64 `mapstructure:"TRACK_SUCCESS_THRESHOLD" default:"0.6"`
	// AttemptTimeoutSeconds bounds each individual strategy attempt.
	AttemptTimeoutSeconds int `mapstructure:"TRACK_ATTEMPT_TIMEOUT_SECONDS" default:"20"`
	// MinIntervalMillis is the enforced spacing between outbound requests to
	// one carrier.
	MinIntervalMillis int `mapstructure:"TRACK_MIN_INTERVAL_MS" default:"2000"`
	// MaxParallel caps concurrent strategy attempts within one request.
	// Values below 2 keep the chain sequential.
	MaxParallel int `mapstructure:"TRACK_MAX_PARALLEL" default:"1"`
	// BestEffort reports below-threshold events instead of failing outright.
	BestEffort bool `mapstructure:"TRACK_BEST_EFFORT" default:"false"`
}

// CacheConfig holds the Redis outcome cache settings. An empty URL disables
// caching.
type CacheConfig struct {
	// RedisURL is the Redis connection URL (redis://[:password@]host[:port][/db]).
	RedisURL string `mapstructure:"REDIS_URL"`
	// OutcomeTTLSeconds is how long successful outcomes stay cached.
	OutcomeTTLSeconds int `mapstructure:"CACHE_OUTCOME_TTL_SECONDS" default:"900"`
}

// ProxyConfig holds outbound proxy credentials for the strategies that
// support proxying.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"PROXY_ENABLED" default:"false"`
	Hostname string `mapstructure:"PROXY_HOSTNAME"`
	Port     int    `mapstructure:"PROXY_PORT"`
	Username string `mapstructure:"PROXY_USERNAME"`
	Password string `mapstructure:"PROXY_PASSWORD"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
