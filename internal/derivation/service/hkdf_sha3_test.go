package service

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"

	derivationDomain "github.com/allisson/devicekey/internal/derivation/domain"
	deviceDomain "github.com/allisson/devicekey/internal/device/domain"
)

// Reference vectors were computed with an independent RFC 5869 implementation over
// SHA3-512. goldenSeed is the override value; its secret is SHA3-256(goldenSeed).
const goldenSeed = "golden-vector-seed"

func goldenSecret(t *testing.T) *deviceDomain.Secret {
	t.Helper()
	sum := sha3.Sum256([]byte(goldenSeed))
	secret, err := deviceDomain.NewSecret(sum[:])
	require.NoError(t, err)
	return secret
}

func fillSecret(t *testing.T, b byte) *deviceDomain.Secret {
	t.Helper()
	secret, err := deviceDomain.NewSecret(bytes.Repeat([]byte{b}, deviceDomain.SecretSize))
	require.NoError(t, err)
	return secret
}

func TestHKDFSHA3_GoldenVectors(t *testing.T) {
	tests := []struct {
		name     string
		secret   func(t *testing.T) *deviceDomain.Secret
		salt     []byte
		info     string
		length   int
		expected string
	}{
		{
			name:     "golden seed device.id 32 bytes",
			secret:   goldenSecret,
			info:     "device.id",
			length:   32,
			expected: "bf6d10c58b43762db929ccaaacd951e9ecd2c26a3732540af2836e865f658418",
		},
		{
			name:     "golden seed with salt",
			secret:   goldenSecret,
			salt:     []byte("fleet-2024"),
			info:     "device.id",
			length:   32,
			expected: "16df6a56eb3a535e72894342d482ad2de4ebce6ad19578ebfb75ff508e87e5d1",
		},
		{
			name:   "multi block output",
			secret: goldenSecret,
			info:   "tls.key",
			length: 70,
			expected: "1c892408e2b919b9b3e2e68a71aab6202ed8c411ef0092c12ea112627d535b9c" +
				"0828a0207f67249fd12ae79607f62c1477d012770c6f7a8ccbb39e9792a78621" +
				"bcb7ebd2c173",
		},
		{
			name:     "raw secret",
			secret:   func(t *testing.T) *deviceDomain.Secret { return fillSecret(t, 0x01) },
			info:     "disk.key",
			length:   20,
			expected: "0a80509cd625388a09f5924a46e26f70eab1322a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewHKDFSHA3(tt.salt)
			out, err := engine.DeriveHex(tt.secret(t), []byte(tt.info), tt.length)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestHKDFSHA3_DeriveUUID_GoldenVector(t *testing.T) {
	engine := NewHKDFSHA3(nil)

	id, err := engine.DeriveUUID(goldenSecret(t), []byte("device.id"))
	require.NoError(t, err)
	assert.Equal(t, "bf6d10c5-8b43-462d-b929-ccaaacd951e9", id)

	id, err = engine.DeriveUUID(fillSecret(t, 0x01), []byte("device.id"))
	require.NoError(t, err)
	assert.Equal(t, "d956a4ff-bb9c-4c1b-9e80-503d62dbf7da", id)
}

func TestHKDFSHA3_Derive(t *testing.T) {
	engine := NewHKDFSHA3(nil)
	secret := goldenSecret(t)

	t.Run("Success_LengthMatchesRequest", func(t *testing.T) {
		for _, n := range []int{0, 1, 15, 16, 63, 64, 65, 128, 1000, derivationDomain.MaxLength} {
			out, err := engine.Derive(secret, []byte("len"), n)
			require.NoError(t, err)
			assert.Len(t, out, n)
		}
	})

	t.Run("Success_ZeroLengthIsEmpty", func(t *testing.T) {
		out, err := engine.Derive(secret, []byte("x"), 0)
		require.NoError(t, err)
		assert.NotNil(t, out)
		assert.Empty(t, out)

		hexOut, err := engine.DeriveHex(secret, []byte("x"), 0)
		require.NoError(t, err)
		assert.Equal(t, "", hexOut)
	})

	t.Run("Success_Deterministic", func(t *testing.T) {
		a, err := engine.Derive(secret, []byte("token"), 48)
		require.NoError(t, err)
		b, err := NewHKDFSHA3(nil).Derive(goldenSecret(t), []byte("token"), 48)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("Success_ShorterOutputIsPrefix", func(t *testing.T) {
		long, err := engine.Derive(secret, []byte("prefix"), 100)
		require.NoError(t, err)
		short, err := engine.Derive(secret, []byte("prefix"), 10)
		require.NoError(t, err)
		assert.Equal(t, long[:10], short)
	})

	t.Run("Success_DistinctInfoIsIndependent", func(t *testing.T) {
		seen := make(map[string]string)
		for i := 0; i < 64; i++ {
			info := fmt.Sprintf("purpose-%d", i)
			out, err := engine.DeriveHex(secret, []byte(info), 32)
			require.NoError(t, err)
			if prev, ok := seen[out]; ok {
				t.Fatalf("collision between %q and %q", prev, info)
			}
			seen[out] = info
		}

		a, _ := engine.Derive(secret, []byte("a"), 32)
		b, _ := engine.Derive(secret, []byte("b"), 32)
		assert.NotEqual(t, a, b)
	})

	t.Run("Success_DistinctSecretsDiffer", func(t *testing.T) {
		a, _ := engine.Derive(fillSecret(t, 1), []byte("id"), 32)
		b, _ := engine.Derive(fillSecret(t, 2), []byte("id"), 32)
		assert.NotEqual(t, a, b)
	})

	t.Run("Success_EmptyAndNilInfoMatch", func(t *testing.T) {
		a, err := engine.Derive(secret, nil, 32)
		require.NoError(t, err)
		b, err := engine.Derive(secret, []byte{}, 32)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("Success_EmptySaltEqualsDefault", func(t *testing.T) {
		a, _ := NewHKDFSHA3(nil).Derive(secret, []byte("salt"), 32)
		b, _ := NewHKDFSHA3([]byte{}).Derive(secret, []byte("salt"), 32)
		c, _ := NewHKDFSHA3(make([]byte, derivationDomain.HashSize)).Derive(secret, []byte("salt"), 32)
		d, _ := NewHKDFSHA3([]byte("other")).Derive(secret, []byte("salt"), 32)
		assert.Equal(t, a, b)
		assert.Equal(t, a, c)
		assert.NotEqual(t, a, d)
	})

	t.Run("Error_LengthAboveMaximum", func(t *testing.T) {
		out, err := engine.Derive(secret, []byte("x"), derivationDomain.MaxLength+1)
		assert.Nil(t, out)
		assert.ErrorIs(t, err, derivationDomain.ErrInvalidLength)

		_, err = engine.DeriveHex(secret, []byte("x"), derivationDomain.MaxLength+1)
		assert.ErrorIs(t, err, derivationDomain.ErrInvalidLength)
	})

	t.Run("Error_NegativeLength", func(t *testing.T) {
		_, err := engine.Derive(secret, []byte("x"), -1)
		assert.ErrorIs(t, err, derivationDomain.ErrInvalidLength)
	})

	t.Run("Error_MissingSecret", func(t *testing.T) {
		_, err := engine.Derive(nil, []byte("x"), 8)
		assert.ErrorIs(t, err, derivationDomain.ErrInvalidRequest)
	})
}

func TestHKDFSHA3_DeriveHex(t *testing.T) {
	engine := NewHKDFSHA3(nil)
	secret := goldenSecret(t)

	raw, err := engine.Derive(secret, []byte("hex"), 33)
	require.NoError(t, err)

	out, err := engine.DeriveHex(secret, []byte("hex"), 33)
	require.NoError(t, err)
	assert.Len(t, out, 66)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]+$`), out)
	assert.Equal(t, hex.EncodeToString(raw), out)
}

func TestHKDFSHA3_DeriveUUID(t *testing.T) {
	engine := NewHKDFSHA3(nil)
	secret := goldenSecret(t)
	canonical := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

	for i := 0; i < 128; i++ {
		info := []byte(fmt.Sprintf("uuid-%d", i))
		id, err := engine.DeriveUUID(secret, info)
		require.NoError(t, err)
		assert.Regexp(t, canonical, id)

		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), parsed.Version())
		assert.Equal(t, uuid.RFC4122, parsed.Variant())

		// Everything outside the version and variant bits comes from Derive.
		raw, err := engine.Derive(secret, info, derivationDomain.UUIDSize)
		require.NoError(t, err)
		for j := range raw {
			switch j {
			case 6:
				assert.Equal(t, raw[j]&0x0f, parsed[j]&0x0f)
			case 8:
				assert.Equal(t, raw[j]&0x3f, parsed[j]&0x3f)
			default:
				assert.Equal(t, raw[j], parsed[j])
			}
		}
	}
}

func TestHKDFSHA3_ConcurrentUse(t *testing.T) {
	engine := NewHKDFSHA3(nil)
	secret := goldenSecret(t)
	expected, err := engine.DeriveHex(secret, []byte("device.id"), 32)
	require.NoError(t, err)

	results := make(chan string, 16)
	for i := 0; i < cap(results); i++ {
		go func() {
			out, _ := engine.DeriveHex(secret, []byte("device.id"), 32)
			results <- out
		}()
	}
	for i := 0; i < cap(results); i++ {
		assert.Equal(t, expected, <-results)
	}
}
