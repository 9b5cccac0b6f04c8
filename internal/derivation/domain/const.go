package domain

// HashSize is the SHA3-512 output size, the HKDF HashLen. Without a configured salt the
// extract step keys HMAC with HashSize zero bytes (RFC 5869); an empty salt is equivalent.
// This convention is part of the cross-implementation contract.
const HashSize = 64

// MaxLength is the largest output HKDF-SHA3-512 can produce: 255 blocks of HashSize bytes.
const MaxLength = 255 * HashSize

// UUIDSize is the number of derived bytes behind a UUID.
const UUIDSize = 16
