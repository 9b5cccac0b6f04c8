package otp

import (
	"encoding/binary"
	"errors"

	"github.com/allisson/devicekey/internal/device/domain"
)

// Tag identifies a VideoCore mailbox property request.
type Tag uint32

// OTP property tags understood by the firmware.
const (
	TagGetCustomerOTP Tag = 0x00030021
	TagSetCustomerOTP Tag = 0x00038021
	TagGetPrivateKey  Tag = 0x00030081
	TagSetPrivateKey  Tag = 0x00038081
)

// Property buffer layout for OTP requests.
const (
	bufferWords = 16
	valueWords  = domain.SecretSize / 4

	// ResponseSuccess is the buffer-level code the firmware writes on success.
	ResponseSuccess uint32 = 0x80000000
	// ResponseError is the buffer-level code the firmware writes on a parse error.
	ResponseError uint32 = 0x80000001
	// TagResponseBit is set in the tag request code word once the firmware handled the tag.
	TagResponseBit uint32 = 0x80000000

	idxSize      = 0
	idxCode      = 1
	idxTag       = 2
	idxValueSize = 3
	idxTagCode   = 4
	idxStartRow  = 5
	idxRowCount  = 6
	idxValue     = 7
)

// PropertyBuffer is a mailbox property message carrying one OTP request:
//
//	[size, code, tag, value size, tag code, start row, row count, v0 .. v7, end tag]
type PropertyBuffer [bufferWords]uint32

// errPropertyRejected is returned when the firmware did not handle the tag, which is
// how stale firmware reports a missing OTP facility.
var errPropertyRejected = errors.New("mailbox property request rejected by firmware")

// Mailbox is the transport to the VideoCore firmware property interface.
type Mailbox interface {
	// Property sends buf to the firmware and leaves the response in place.
	Property(buf *PropertyBuffer) error
	// Lock takes an exclusive, cross-process lock on the mailbox.
	Lock() (unlock func() error, err error)
	Close() error
}

// NewPropertyBuffer encodes an OTP request for tag. When value is non-nil its bytes are
// packed into the eight value words, big-endian per word.
func NewPropertyBuffer(tag Tag, value *domain.Secret) PropertyBuffer {
	buf := PropertyBuffer{
		idxSize:      bufferWords * 4,
		idxCode:      0,
		idxTag:       uint32(tag),
		idxValueSize: 8 + domain.SecretSize,
		idxTagCode:   0,
		idxStartRow:  0,
		idxRowCount:  valueWords,
	}
	if value != nil {
		raw := value.Bytes()
		for i := 0; i < valueWords; i++ {
			buf[idxValue+i] = binary.BigEndian.Uint32(raw[i*4:])
		}
	}
	return buf
}

// Tag returns the request tag.
func (b *PropertyBuffer) Tag() Tag {
	return Tag(b[idxTag])
}

// Value decodes the eight value words into a secret.
func (b *PropertyBuffer) Value() *domain.Secret {
	var raw [domain.SecretSize]byte
	for i := 0; i < valueWords; i++ {
		binary.BigEndian.PutUint32(raw[i*4:], b[idxValue+i])
	}
	// Cannot fail: raw has exactly SecretSize bytes.
	secret, _ := domain.NewSecret(raw[:])
	domain.Zero(raw[:])
	return secret
}

// SetValue packs secret into the value words.
func (b *PropertyBuffer) SetValue(secret *domain.Secret) {
	raw := secret.Bytes()
	for i := 0; i < valueWords; i++ {
		b[idxValue+i] = binary.BigEndian.Uint32(raw[i*4:])
	}
}

// Respond marks the buffer as answered with the given buffer-level code.
func (b *PropertyBuffer) Respond(code uint32) {
	b[idxCode] = code
	if code == ResponseSuccess {
		b[idxTagCode] = TagResponseBit | (8 + domain.SecretSize)
	}
}

// Wipe zeroes the buffer, including any value words.
func (b *PropertyBuffer) Wipe() {
	for i := range b {
		b[i] = 0
	}
}

func (b *PropertyBuffer) accepted() bool {
	return b[idxCode] == ResponseSuccess && b[idxTagCode]&TagResponseBit != 0
}

// call sends a request for tag and returns the value the firmware answered with.
func call(mb Mailbox, tag Tag, value *domain.Secret) (*domain.Secret, error) {
	buf := NewPropertyBuffer(tag, value)
	defer buf.Wipe()

	if err := mb.Property(&buf); err != nil {
		return nil, err
	}
	if !buf.accepted() {
		return nil, errPropertyRejected
	}
	return buf.Value(), nil
}
