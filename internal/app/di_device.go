package app

import (
	"crypto/rand"
	"fmt"
	"log/slog"

	"github.com/allisson/devicekey/internal/device/otp"
	deviceUsecase "github.com/allisson/devicekey/internal/device/usecase"
)

// Backend returns the OTP backend selected by the configuration.
// Opening it claims the OTP region for this process.
func (c *Container) Backend() (otp.Backend, error) {
	var err error
	c.backendInit.Do(func() {
		c.backend, err = c.initBackend()
		if err != nil {
			c.initErrors["backend"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["backend"]; exists {
		return nil, storedErr
	}
	return c.backend, nil
}

// SecretStore returns the device secret store.
func (c *Container) SecretStore() (deviceUsecase.SecretStore, error) {
	var err error
	c.secretStoreInit.Do(func() {
		c.secretStore, err = c.initSecretStore()
		if err != nil {
			c.initErrors["secretStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretStore"]; exists {
		return nil, storedErr
	}
	return c.secretStore, nil
}

// initBackend opens the backend. The override is logged so its use is auditable.
func (c *Container) initBackend() (otp.Backend, error) {
	opts := c.config.BackendOptions()
	if opts.Override.Enabled {
		c.Logger().Warn("device secret override active, hardware is not used",
			slog.String("region", opts.Region.String()),
		)
	}

	backend, err := otp.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open otp backend: %w", err)
	}
	return backend, nil
}

// initSecretStore creates the secret store over the configured backend.
func (c *Container) initSecretStore() (deviceUsecase.SecretStore, error) {
	backend, err := c.Backend()
	if err != nil {
		return nil, fmt.Errorf("failed to get backend for secret store: %w", err)
	}

	baseStore := deviceUsecase.NewSecretStore(backend, rand.Reader, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for secret store: %w", err)
		}
		return deviceUsecase.NewSecretStoreWithMetrics(baseStore, businessMetrics), nil
	}

	return baseStore, nil
}
