// Package config provides application configuration through environment variables.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	"github.com/allisson/devicekey/internal/device/domain"
	"github.com/allisson/devicekey/internal/device/otp"
	customValidation "github.com/allisson/devicekey/internal/validation"
)

// OverrideEnvVar selects the fake backend. Any value, including the empty string, enables
// it; only unset disables it.
const OverrideEnvVar = "FAKE_RPI_DERIVE_KEY_SECRET"

// Config holds all application configuration.
type Config struct {
	// CustomerOTP selects the customer OTP region instead of the private key region.
	CustomerOTP bool
	// RegionName names the region explicitly ("private-key" or "customer"). When set it
	// takes precedence over CustomerOTP.
	RegionName string
	// Salt is the HKDF salt. Empty means the RFC 5869 default.
	Salt string
	// VCIODevicePath is the VideoCore mailbox device node.
	VCIODevicePath string

	// OverrideEnabled reports whether OverrideEnvVar was present in the environment.
	OverrideEnabled bool
	// OverrideSeed is the value of OverrideEnvVar. Never log it.
	OverrideSeed string

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsTextfilePath is where metrics are written on exit. Empty disables the export.
	MetricsTextfilePath string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// The override must come from the real process environment, never from a .env file.
	seed, overridden := os.LookupEnv(OverrideEnvVar)

	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Device
		CustomerOTP:    env.GetBool("DERIVE_KEY_CUSTOMER_OTP", false),
		RegionName:     env.GetString("DERIVE_KEY_REGION", ""),
		Salt:           env.GetString("DERIVE_KEY_SALT", ""),
		VCIODevicePath: env.GetString("VCIO_DEVICE_PATH", otp.DefaultVCIOPath),

		// Test override
		OverrideEnabled: overridden,
		OverrideSeed:    seed,

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Metrics
		MetricsEnabled:      env.GetBool("METRICS_ENABLED", false),
		MetricsNamespace:    env.GetString("METRICS_NAMESPACE", "devicekey"),
		MetricsTextfilePath: env.GetString("METRICS_TEXTFILE_PATH", ""),
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.RegionName,
			validation.By(validRegionName),
		),
		validation.Field(&c.VCIODevicePath,
			validation.When(!c.OverrideEnabled,
				validation.Required,
				customValidation.AbsolutePath,
			),
		),
		validation.Field(&c.LogLevel,
			validation.In("debug", "info", "warn", "error"),
		),
		validation.Field(&c.MetricsNamespace,
			validation.When(c.MetricsEnabled,
				validation.Required,
				customValidation.MetricName,
			),
		),
		validation.Field(&c.MetricsTextfilePath,
			customValidation.NoWhitespace,
		),
	)
	return customValidation.WrapValidationError(err)
}

// Region returns the OTP region selected by RegionName, falling back to CustomerOTP.
func (c *Config) Region() domain.Region {
	if region, err := domain.ParseRegion(c.RegionName); err == nil {
		return region
	}
	return domain.RegionFromFlag(c.CustomerOTP)
}

func validRegionName(value any) error {
	name, _ := value.(string)
	if name == "" {
		return nil
	}
	_, err := domain.ParseRegion(name)
	return err
}

// BackendOptions returns the backend selection derived from the configuration.
func (c *Config) BackendOptions() otp.Options {
	return otp.Options{
		Region:   c.Region(),
		VCIOPath: c.VCIODevicePath,
		Override: otp.Override{
			Enabled: c.OverrideEnabled,
			Seed:    []byte(c.OverrideSeed),
		},
	}
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			applyDotEnv(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}

// applyDotEnv sets the variables from path that are not already set, like godotenv.Load,
// but never OverrideEnvVar.
func applyDotEnv(path string) {
	values, err := godotenv.Read(path)
	if err != nil {
		return
	}
	for key, value := range values {
		if key == OverrideEnvVar {
			continue
		}
		if _, ok := os.LookupEnv(key); ok {
			continue
		}
		_ = os.Setenv(key, value)
	}
}
