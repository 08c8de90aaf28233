// Package config provides configuration management for the application.
// It follows the 12-Factor App methodology by loading configuration
// from environment variables and supporting external configuration files.
//
// 12-Factor App Compilance:
//   - III. Config: Store config in the environment
//   - Configuration is loaded from environment variables
//   - A config file is optional; every key has a default
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hapkiduki/boxspec-go/internal/domain/calculator"
	"github.com/hapkiduki/boxspec-go/internal/domain/valueobject"
)

// EnvPrefix is prepended to every environment variable, e.g. BOXSPEC_LOG_LEVEL.
const EnvPrefix = "BOXSPEC"

// Config holds all application configuration.
// All fields are populated from environment variables or config files.
type Config struct {
	// App contains application-level configuration
	App AppConfig `mapstructure:"app"`

	// Server contains HTTP server configuration
	Server ServerConfig `mapstructure:"server"`

	// Log contains logger configuration
	Log LogConfig `mapstructure:"log"`

	// Database contains template storage configuration
	Database DatabaseConfig `mapstructure:"database"`

	// RateLimit contains per-client rate limiting configuration
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Calculator contains the corrugation constants
	Calculator CalculatorConfig `mapstructure:"calculator"`
}

// AppConfig contains application-level configuration.
type AppConfig struct {
	// Name of the application
	Name string `mapstructure:"name"`

	// Environment the application is running in (e.g., development, staging, production)
	Environment string `mapstructure:"environment"`

	// Version of the application
	Version string `mapstructure:"version"`

	// Debug mode flag
	Debug bool `mapstructure:"debug"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Host is the server bind address
	Host string `mapstructure:"host"`

	// Port is the server port
	Port int `mapstructure:"port"`

	// ReadTimeout is the maximum duration for reading the entire request, including the body
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the response
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`

	// ShutdownTimeout is the maximum duration for graceful server shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// RequestTimeout bounds the handling of a single request
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// MaxRequestSize is the maximun allowed request body size
	MaxRequestSize int64 `mapstructure:"max_request_size"`

	// CORSAllowedOrigins is a list of allowed origins for CORS
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// Address returns host:port for http.Server.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig contains logger configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`

	// Format is json or console
	Format string `mapstructure:"format"`
}

// DatabaseConfig contains template storage configuration.
type DatabaseConfig struct {
	// Path is the SQLite file, or ":memory:"
	Path string `mapstructure:"path"`

	// MigrateOnStart applies pending migrations when the server starts
	MigrateOnStart bool `mapstructure:"migrate_on_start"`
}

// RateLimitConfig contains per-client rate limiting configuration.
type RateLimitConfig struct {
	// Enabled turns the limiter on
	Enabled bool `mapstructure:"enabled"`

	// RequestsPerSecond is the sustained rate per client
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`

	// Burst is the bucket size per client
	Burst int `mapstructure:"burst"`
}

// CalculatorConfig mirrors calculator.Config with loader-friendly types.
type CalculatorConfig struct {
	LengthShrinkage     float64            `mapstructure:"length_shrinkage_factor"`
	BreadthShrinkage    float64            `mapstructure:"breadth_shrinkage_factor"`
	HeightShrinkage     float64            `mapstructure:"height_shrinkage_factor"`
	FluteAllowance      float64            `mapstructure:"flute_allowance"`
	FluteFactor         float64            `mapstructure:"flute_factor"`
	CMPerInch           float64            `mapstructure:"cm_per_inch"`
	JoinAllowance       float64            `mapstructure:"join_allowance"`
	FullLengthTrim      float64            `mapstructure:"full_length_trim"`
	HalfLengthTrim      float64            `mapstructure:"half_length_trim"`
	ReelTrim            float64            `mapstructure:"reel_trim"`
	TwoBoardReelLimit   float64            `mapstructure:"two_board_reel_limit"`
	OneBoardReelLimit   float64            `mapstructure:"one_board_reel_limit"`
	FullLengthReelLimit float64            `mapstructure:"full_length_reel_limit"`
	HalfLengthThreshold float64            `mapstructure:"half_length_threshold"`
	TakeUpFactor        float64            `mapstructure:"flute_tuf"`
	AreaWeightDivisor   float64            `mapstructure:"area_weight_divisor"`
	DefaultUnitPrice    float64            `mapstructure:"paper_cost_per_kg"`
	LaborPercentage     float64            `mapstructure:"labor_cost_percentage"`
	Precision           int                `mapstructure:"precision"`
	Currency            string             `mapstructure:"currency"`
	LayerDefaults       map[string]float64 `mapstructure:"layer_defaults"`
}

// Domain converts the loaded values into a validated calculator.Config.
//
// Returns:
//   - calculator.Config: immutable calculator configuration
//   - error: calculator.ErrInvalidConfig on unknown layers or unusable values
func (c CalculatorConfig) Domain() (calculator.Config, error) {
	currency, err := valueobject.ParseCurrency(c.Currency)
	if err != nil {
		return calculator.Config{}, fmt.Errorf("%w: %v", calculator.ErrInvalidConfig, err)
	}

	var defaults map[valueobject.Layer]float64
	if len(c.LayerDefaults) > 0 {
		defaults = make(map[valueobject.Layer]float64, len(c.LayerDefaults))
		for name, gsm := range c.LayerDefaults {
			layer, err := valueobject.ParseLayer(name)
			if err != nil {
				return calculator.Config{}, fmt.Errorf("%w: layer_defaults: %v", calculator.ErrInvalidConfig, err)
			}
			defaults[layer] = gsm
		}
	}

	cfg := calculator.Config{
		LengthShrinkage:     c.LengthShrinkage,
		BreadthShrinkage:    c.BreadthShrinkage,
		HeightShrinkage:     c.HeightShrinkage,
		FluteAllowance:      c.FluteAllowance,
		FluteFactor:         c.FluteFactor,
		CMPerInch:           c.CMPerInch,
		JoinAllowance:       c.JoinAllowance,
		FullLengthTrim:      c.FullLengthTrim,
		HalfLengthTrim:      c.HalfLengthTrim,
		ReelTrim:            c.ReelTrim,
		TwoBoardReelLimit:   c.TwoBoardReelLimit,
		OneBoardReelLimit:   c.OneBoardReelLimit,
		FullLengthReelLimit: c.FullLengthReelLimit,
		HalfLengthThreshold: c.HalfLengthThreshold,
		TakeUpFactor:        c.TakeUpFactor,
		AreaWeightDivisor:   c.AreaWeightDivisor,
		DefaultUnitPrice:    c.DefaultUnitPrice,
		LaborPercentage:     c.LaborPercentage,
		Precision:           c.Precision,
		Currency:            currency,
		LayerDefaults:       defaults,
	}
	if err := cfg.Validate(); err != nil {
		return calculator.Config{}, err
	}
	return cfg, nil
}

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks the settings that the loader cannot type-check.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: log.format must be json or console", ErrInvalidConfig)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("%w: rate_limit needs a positive rate and burst", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("%w: database.path is required", ErrInvalidConfig)
	}
	if _, err := c.Calculator.Domain(); err != nil {
		return err
	}
	return nil
}

// Load loads the configuration from environment variables and config files.
// It follows this precedence (higest to lowest):
//  1. Environment variables
//  2. Config file (if provided)
//  3. Default values
//
// Parameters:
//   - configFile: explicit config file path; empty searches ., ./configs and /etc/boxspec
//
// Returns:
//   - *Config: The loaded configuration
//   - error: Any error encountered during loading
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/boxspec")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine when searching; an explicit path must exist.
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad loads the configuration and panics on error.
// Use this in application entry points where configuration is required.
func MustLoad(configFile string) *Config {
	cfg, err := Load(configFile)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "boxspec")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.debug", false)

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.request_timeout", 10*time.Second)
	v.SetDefault("server.max_request_size", 1<<20) // 1MB
	v.SetDefault("server.cors_allowed_origins", []string{"*"})

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Database defaults
	v.SetDefault("database.path", "boxspec.db")
	v.SetDefault("database.migrate_on_start", true)

	// Rate limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)

	// Calculator defaults come from the domain so there is one source of truth.
	d := calculator.DefaultConfig()
	v.SetDefault("calculator.length_shrinkage_factor", d.LengthShrinkage)
	v.SetDefault("calculator.breadth_shrinkage_factor", d.BreadthShrinkage)
	v.SetDefault("calculator.height_shrinkage_factor", d.HeightShrinkage)
	v.SetDefault("calculator.flute_allowance", d.FluteAllowance)
	v.SetDefault("calculator.flute_factor", d.FluteFactor)
	v.SetDefault("calculator.cm_per_inch", d.CMPerInch)
	v.SetDefault("calculator.join_allowance", d.JoinAllowance)
	v.SetDefault("calculator.full_length_trim", d.FullLengthTrim)
	v.SetDefault("calculator.half_length_trim", d.HalfLengthTrim)
	v.SetDefault("calculator.reel_trim", d.ReelTrim)
	v.SetDefault("calculator.two_board_reel_limit", d.TwoBoardReelLimit)
	v.SetDefault("calculator.one_board_reel_limit", d.OneBoardReelLimit)
	v.SetDefault("calculator.full_length_reel_limit", d.FullLengthReelLimit)
	v.SetDefault("calculator.half_length_threshold", d.HalfLengthThreshold)
	v.SetDefault("calculator.flute_tuf", d.TakeUpFactor)
	v.SetDefault("calculator.area_weight_divisor", d.AreaWeightDivisor)
	v.SetDefault("calculator.paper_cost_per_kg", d.DefaultUnitPrice)
	v.SetDefault("calculator.labor_cost_percentage", d.LaborPercentage)
	v.SetDefault("calculator.precision", d.Precision)
	v.SetDefault("calculator.currency", string(d.Currency))
	v.SetDefault("calculator.layer_defaults", map[string]float64{})
}

// bindEnvVars binds specific environment variables to configuration keys.
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("app.environment", EnvPrefix+"_ENVIRONMENT")
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT") // Common convention
}
