package app

import (
	"fmt"

	derivationService "github.com/allisson/devicekey/internal/derivation/service"
	derivationUsecase "github.com/allisson/devicekey/internal/derivation/usecase"
)

// KeyDerivation returns the HKDF-SHA3-512 engine configured with the salt.
func (c *Container) KeyDerivation() derivationService.KeyDerivation {
	c.keyDerivationInit.Do(func() {
		c.keyDerivation = derivationService.NewHKDFSHA3([]byte(c.config.Salt))
	})
	return c.keyDerivation
}

// DeriveUseCase returns the derivation use case.
func (c *Container) DeriveUseCase() (derivationUsecase.DeriveUseCase, error) {
	var err error
	c.deriveUseCaseInit.Do(func() {
		c.deriveUseCase, err = c.initDeriveUseCase()
		if err != nil {
			c.initErrors["deriveUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deriveUseCase"]; exists {
		return nil, storedErr
	}
	return c.deriveUseCase, nil
}

// initDeriveUseCase creates the derivation use case.
func (c *Container) initDeriveUseCase() (derivationUsecase.DeriveUseCase, error) {
	store, err := c.SecretStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret store for derive use case: %w", err)
	}

	baseUseCase := derivationUsecase.NewDeriveUseCase(store, c.KeyDerivation())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for derive use case: %w", err)
		}
		return derivationUsecase.NewDeriveUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
