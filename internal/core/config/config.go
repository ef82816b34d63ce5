package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"payurl-service/internal/core/proxy"

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

	// Alibaba holds the 1688 open platform credentials and call policy.
	Alibaba AlibabaConfig `mapstructure:",squash"`

	// Redis holds the optional status cache configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// Proxy holds the optional outbound proxy used for gateway calls.
	Proxy proxy.Settings `mapstructure:",squash"`
}

// AlibabaConfig holds the credentials and call policy for the 1688 open platform gateway.
type AlibabaConfig struct {
	// GatewayURL is the base URL of the open platform, without the API path.
	GatewayURL string `mapstructure:"ALIBABA_GATEWAY_URL" default:"https://gw.open.1688.com/openapi"`
	// AppKey identifies the application and is the last segment of every API path.
	AppKey string `mapstructure:"ALIBABA_APP_KEY" required:"true"`
	// AppSecret is the HMAC key used to sign requests.
	AppSecret string `mapstructure:"ALIBABA_APP_SECRET" required:"true"`
	// AccessToken is the buyer authorization token sent with every call.
	AccessToken string `mapstructure:"ALIBABA_ACCESS_TOKEN" required:"true"`
	// DetailTimeout bounds a single order detail call.
	DetailTimeout time.Duration `mapstructure:"ALIBABA_DETAIL_TIMEOUT" default:"10s"`
	// PayURLTimeout bounds each attempt of the cross-border pay URL call.
	PayURLTimeout time.Duration `mapstructure:"ALIBABA_PAY_URL_TIMEOUT" default:"15s"`
	// PayURLMaxAttempts is the number of transport attempts for the pay URL call.
	PayURLMaxAttempts int `mapstructure:"ALIBABA_PAY_URL_MAX_ATTEMPTS" default:"3"`
	// PayURLRetryBackoff is the fixed pause between pay URL attempts.
	PayURLRetryBackoff time.Duration `mapstructure:"ALIBABA_PAY_URL_RETRY_BACKOFF" default:"1s"`
}

// RedisConfig holds the status cache connection details.
type RedisConfig struct {
	// URL is the Redis connection URL. Empty disables the status cache.
	URL string `mapstructure:"REDIS_URL"`
	// StatusTTL is how long a resolved pay status is served from cache.
	// A cached status may lag a payment by up to this long.
	StatusTTL time.Duration `mapstructure:"STATUS_CACHE_TTL" default:"10s"`
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

	if config.Alibaba.PayURLMaxAttempts < 1 {
		return nil, fmt.Errorf("invalid configuration: ALIBABA_PAY_URL_MAX_ATTEMPTS must be at least 1, got %d", config.Alibaba.PayURLMaxAttempts)
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
