package otp_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/devicekey/internal/device/domain"
	"github.com/allisson/devicekey/internal/device/otp"
	"github.com/allisson/devicekey/internal/device/otp/otptest"
)

func TestOpen(t *testing.T) {
	var opened []string
	restore := otp.SetOpenMailbox(func(path string) (otp.Mailbox, error) {
		opened = append(opened, path)
		return otptest.NewMailbox(), nil
	})
	t.Cleanup(restore)

	t.Run("Success_OverrideWinsOverRegion", func(t *testing.T) {
		opened = nil
		for _, region := range []domain.Region{domain.RegionPrivateKey, domain.RegionCustomer} {
			backend, err := otp.Open(otp.Options{
				Region:   region,
				Override: otp.Override{Enabled: true, Seed: []byte("dev")},
			})
			require.NoError(t, err)
			assert.Equal(t, otp.KindFake, backend.Kind())
			require.NoError(t, backend.Close())
		}
		assert.Empty(t, opened)
	})

	t.Run("Success_EmptyOverrideStillSelectsFake", func(t *testing.T) {
		backend, err := otp.Open(otp.Options{Override: otp.Override{Enabled: true}})
		require.NoError(t, err)
		assert.Equal(t, otp.KindFake, backend.Kind())
	})

	t.Run("Success_PrivateRegion", func(t *testing.T) {
		opened = nil
		backend, err := otp.Open(otp.Options{Region: domain.RegionPrivateKey})
		require.NoError(t, err)
		defer func() { _ = backend.Close() }()

		assert.Equal(t, otp.KindPrivateOTP, backend.Kind())
		assert.IsType(t, &otp.PrivateOTPBackend{}, backend)
		assert.Equal(t, []string{otp.DefaultVCIOPath}, opened)
	})

	t.Run("Success_CustomerRegionCustomPath", func(t *testing.T) {
		opened = nil
		backend, err := otp.Open(otp.Options{Region: domain.RegionCustomer, VCIOPath: "/tmp/vcio"})
		require.NoError(t, err)
		defer func() { _ = backend.Close() }()

		assert.Equal(t, otp.KindCustomerOTP, backend.Kind())
		assert.IsType(t, &otp.CustomerOTPBackend{}, backend)
		assert.Equal(t, []string{"/tmp/vcio"}, opened)
	})

	t.Run("Error_RegionAlreadyOpen", func(t *testing.T) {
		first, err := otp.Open(otp.Options{Region: domain.RegionCustomer})
		require.NoError(t, err)

		_, err = otp.Open(otp.Options{Region: domain.RegionCustomer})
		assert.ErrorIs(t, err, domain.ErrRegionInUse)

		// The other region is a different physical resource.
		other, err := otp.Open(otp.Options{Region: domain.RegionPrivateKey})
		require.NoError(t, err)
		require.NoError(t, other.Close())

		require.NoError(t, first.Close())
		again, err := otp.Open(otp.Options{Region: domain.RegionCustomer})
		require.NoError(t, err)
		require.NoError(t, again.Close())
	})

	t.Run("Error_InvalidRegion", func(t *testing.T) {
		_, err := otp.Open(otp.Options{Region: domain.Region(42)})
		assert.ErrorIs(t, err, domain.ErrInvalidRegion)
	})
}

func TestOpen_MailboxFailureReleasesRegion(t *testing.T) {
	failing := true
	restore := otp.SetOpenMailbox(func(path string) (otp.Mailbox, error) {
		if failing {
			return nil, domain.ErrHardwareUnsupported
		}
		return otptest.NewMailbox(), nil
	})
	t.Cleanup(restore)

	_, err := otp.Open(otp.Options{Region: domain.RegionPrivateKey})
	assert.True(t, errors.Is(err, domain.ErrHardwareUnsupported))

	failing = false
	backend, err := otp.Open(otp.Options{Region: domain.RegionPrivateKey})
	require.NoError(t, err)
	require.NoError(t, backend.Close())
}

func TestOptions_KindMatchesOpen(t *testing.T) {
	restore := otp.SetOpenMailbox(func(string) (otp.Mailbox, error) {
		return otptest.NewMailbox(), nil
	})
	t.Cleanup(restore)

	for _, opts := range []otp.Options{
		{Region: domain.RegionPrivateKey},
		{Region: domain.RegionCustomer},
		{Region: domain.RegionCustomer, Override: otp.Override{Enabled: true}},
	} {
		backend, err := otp.Open(opts)
		require.NoError(t, err)
		assert.Equal(t, backend.Kind(), opts.Kind())
		require.NoError(t, backend.Close())
	}
}
