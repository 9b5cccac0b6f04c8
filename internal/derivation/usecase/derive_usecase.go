package usecase

import (
	"context"
	"fmt"

	validation "github.com/jellydator/validation"

	derivationDomain "github.com/allisson/devicekey/internal/derivation/domain"
	derivationService "github.com/allisson/devicekey/internal/derivation/service"
	deviceDomain "github.com/allisson/devicekey/internal/device/domain"
	deviceUsecase "github.com/allisson/devicekey/internal/device/usecase"
)

// deriveRequest is validated before the secret is read, so malformed requests never touch
// the hardware.
type deriveRequest struct {
	Length int
}

func (r *deriveRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Length,
			validation.Min(0),
			validation.Max(derivationDomain.MaxLength),
		),
	)
}

// deriveUseCase implements DeriveUseCase.
type deriveUseCase struct {
	store  deviceUsecase.SecretStore
	engine derivationService.KeyDerivation
}

// NewDeriveUseCase creates a DeriveUseCase reading the secret from store.
func NewDeriveUseCase(store deviceUsecase.SecretStore, engine derivationService.KeyDerivation) DeriveUseCase {
	return &deriveUseCase{
		store:  store,
		engine: engine,
	}
}

// withSecret validates the request, reads the secret and wipes it once fn returns.
func (d *deriveUseCase) withSecret(
	ctx context.Context,
	length int,
	fn func(secret *deviceDomain.Secret) error,
) error {
	req := deriveRequest{Length: length}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", derivationDomain.ErrInvalidLength, err)
	}

	secret, err := d.store.SecretMaterial(ctx)
	if err != nil {
		return err
	}
	defer secret.Wipe()

	return fn(secret)
}

func (d *deriveUseCase) Derive(ctx context.Context, info []byte, length int) ([]byte, error) {
	var out []byte
	err := d.withSecret(ctx, length, func(secret *deviceDomain.Secret) error {
		var err error
		out, err = d.engine.Derive(secret, info, length)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (d *deriveUseCase) DeriveHex(ctx context.Context, info []byte, length int) (string, error) {
	var out string
	err := d.withSecret(ctx, length, func(secret *deviceDomain.Secret) error {
		var err error
		out, err = d.engine.DeriveHex(secret, info, length)
		return err
	})
	return out, err
}

func (d *deriveUseCase) DeriveUUID(ctx context.Context, info []byte) (string, error) {
	var out string
	err := d.withSecret(ctx, derivationDomain.UUIDSize, func(secret *deviceDomain.Secret) error {
		var err error
		out, err = d.engine.DeriveUUID(secret, info)
		return err
	})
	return out, err
}
