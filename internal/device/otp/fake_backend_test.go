package otp_test

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/devicekey/internal/device/domain"
	"github.com/allisson/devicekey/internal/device/otp"
)

func TestFakeBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_AlwaysInitialized", func(t *testing.T) {
		backend := otp.NewFakeBackend(domain.RegionCustomer, []byte("seed"))
		assert.Equal(t, otp.KindFake, backend.Kind())
		assert.Equal(t, domain.RegionCustomer, backend.Region())

		status, err := backend.Probe(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInitialized, status)
	})

	t.Run("Success_InitializeIsNoOp", func(t *testing.T) {
		backend := otp.NewFakeBackend(domain.RegionPrivateKey, []byte("seed"))
		before, err := backend.ReadSecret(ctx)
		require.NoError(t, err)

		other, err := domain.NewSecret(make([]byte, domain.SecretSize))
		require.NoError(t, err)
		require.NoError(t, backend.Initialize(ctx, other))

		after, err := backend.ReadSecret(ctx)
		require.NoError(t, err)
		assert.True(t, before.Equal(after))
	})

	t.Run("Success_SecretIsSHA3_256OfSeed", func(t *testing.T) {
		backend := otp.NewFakeBackend(domain.RegionPrivateKey, []byte("golden-vector-seed"))
		secret, err := backend.ReadSecret(ctx)
		require.NoError(t, err)
		assert.Equal(t,
			"7207b9fbc4a83b341114b0043971e7b8e7b701151021f7de0f43b18175c4b7c3",
			hex.EncodeToString(secret.Bytes()),
		)
	})

	t.Run("Success_DeterministicAcrossInstancesAndRegions", func(t *testing.T) {
		a, err := otp.NewFakeBackend(domain.RegionPrivateKey, []byte("x")).ReadSecret(ctx)
		require.NoError(t, err)
		b, err := otp.NewFakeBackend(domain.RegionCustomer, []byte("x")).ReadSecret(ctx)
		require.NoError(t, err)
		c, err := otp.NewFakeBackend(domain.RegionPrivateKey, []byte("y")).ReadSecret(ctx)
		require.NoError(t, err)

		assert.True(t, a.Equal(b))
		assert.False(t, a.Equal(c))
	})

	t.Run("Success_EmptySeed", func(t *testing.T) {
		secret, err := otp.NewFakeBackend(domain.RegionPrivateKey, nil).ReadSecret(ctx)
		require.NoError(t, err)
		assert.False(t, secret.IsZero())
	})

	t.Run("Success_SurveyReportsBothRegions", func(t *testing.T) {
		backend := otp.NewFakeBackend(domain.RegionCustomer, []byte("seed"))

		reports := backend.Survey(ctx)

		require.Len(t, reports, 2)
		assert.Equal(t, domain.RegionPrivateKey, reports[0].Region)
		assert.Equal(t, domain.RegionCustomer, reports[1].Region)
		for _, report := range reports {
			assert.NoError(t, report.Err)
			assert.Equal(t, domain.StatusInitialized, report.Status)
		}
	})

	t.Run("Error_UnusableAfterClose", func(t *testing.T) {
		backend := otp.NewFakeBackend(domain.RegionPrivateKey, []byte("seed"))
		require.NoError(t, backend.Close())

		status, err := backend.Probe(ctx)
		assert.ErrorIs(t, err, domain.ErrReadFailure)
		assert.NotEqual(t, domain.StatusInitialized, status)

		secret, err := backend.ReadSecret(ctx)
		assert.ErrorIs(t, err, domain.ErrReadFailure)
		assert.Nil(t, secret)

		other, err := domain.NewSecret(make([]byte, domain.SecretSize))
		require.NoError(t, err)
		assert.ErrorIs(t, backend.Initialize(ctx, other), domain.ErrWriteFailure)

		for _, report := range backend.Survey(ctx) {
			assert.ErrorIs(t, report.Err, domain.ErrReadFailure)
		}
	})
}
