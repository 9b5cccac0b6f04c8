// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/devicekey/internal/config"
	derivationService "github.com/allisson/devicekey/internal/derivation/service"
	derivationUsecase "github.com/allisson/devicekey/internal/derivation/usecase"
	"github.com/allisson/devicekey/internal/device/otp"
	deviceUsecase "github.com/allisson/devicekey/internal/device/usecase"
	"github.com/allisson/devicekey/internal/metrics"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	backend         otp.Backend

	// Services
	keyDerivation derivationService.KeyDerivation

	// Use Cases
	secretStore   deviceUsecase.SecretStore
	deriveUseCase derivationUsecase.DeriveUseCase

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	backendInit         sync.Once
	keyDerivationInit   sync.Once
	secretStoreInit     sync.Once
	deriveUseCaseInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MetricsProvider returns the OpenTelemetry metrics provider.
// It is only created when metrics are enabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder, a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Release the backend through the store when it exists, otherwise directly
	switch {
	case c.secretStore != nil:
		if err := c.secretStore.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("secret store close: %w", err))
		}
	case c.backend != nil:
		if err := c.backend.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("backend close: %w", err))
		}
	}

	// Export and flush metrics if initialized
	if c.metricsProvider != nil {
		if path := c.config.MetricsTextfilePath; path != "" {
			if err := c.metricsProvider.WriteTextfile(path); err != nil {
				shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics export: %w", err))
			}
		}
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates a structured logger based on the log level. Logs go to stderr;
// stdout carries derived keys.
func (c *Container) initLogger() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: c.config.SlogLevel(),
	})

	return slog.New(handler)
}

// initMetricsProvider creates the metrics provider.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, fmt.Errorf("metrics are disabled")
	}
	return metrics.NewProvider(c.config.MetricsNamespace)
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}

	opts := c.config.BackendOptions()
	return metrics.NewBusinessMetrics(
		provider.MeterProvider(),
		c.config.MetricsNamespace,
		metrics.DeviceAttributes(opts.Region.String(), string(opts.Kind()))...,
	)
}
