// Package otptest provides an in-memory VideoCore mailbox that behaves like OTP hardware,
// so the secret store and backends can be exercised off-target.
package otptest

import (
	"sync"

	"github.com/allisson/devicekey/internal/device/domain"
	"github.com/allisson/devicekey/internal/device/otp"
)

// Mailbox simulates the firmware property interface over two OTP regions.
//
// Programming ORs the requested bits into the rows, like real fuses: bits only ever go
// from 0 to 1.
type Mailbox struct {
	mu sync.Mutex

	rows     map[domain.Region]*[domain.SecretSize]byte
	rejected map[otp.Tag]bool

	// PropertyErr, when set, is returned by every Property call.
	PropertyErr error
	// WriteErr, when set, is returned by Property for set tags, after nothing was written.
	WriteErr error
	// LockErr, when set, is returned by Lock.
	LockErr error
	// FlipBitOnWrite programs one extra bit so read-back verification fails.
	FlipBitOnWrite bool

	calls  []otp.Tag
	locks  int
	held   bool
	closed bool
}

// NewMailbox returns a mailbox with both regions unprogrammed.
func NewMailbox() *Mailbox {
	return &Mailbox{
		rows: map[domain.Region]*[domain.SecretSize]byte{
			domain.RegionPrivateKey: {},
			domain.RegionCustomer:   {},
		},
		rejected: make(map[otp.Tag]bool),
	}
}

// StaleFirmware makes the mailbox reject the private-key tags, as firmware without
// private-key support does.
func (m *Mailbox) StaleFirmware() *Mailbox {
	return m.Reject(otp.TagGetPrivateKey, otp.TagSetPrivateKey)
}

// Reject makes the firmware refuse the given tags.
func (m *Mailbox) Reject(tags ...otp.Tag) *Mailbox {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tag := range tags {
		m.rejected[tag] = true
	}
	return m
}

// Program writes material into region directly, bypassing the property interface.
func (m *Mailbox) Program(region domain.Region, material []byte) *Mailbox {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := m.rows[region]
	for i := range row {
		row[i] |= material[i]
	}
	return m
}

// Stored returns a copy of the raw rows of region.
func (m *Mailbox) Stored(region domain.Region) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, domain.SecretSize)
	copy(out, m.rows[region][:])
	return out
}

// Calls returns the tags seen so far, in order.
func (m *Mailbox) Calls() []otp.Tag {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]otp.Tag(nil), m.calls...)
}

// Locks returns how many times the exclusive lock was taken.
func (m *Mailbox) Locks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locks
}

// Held reports whether the lock is currently held.
func (m *Mailbox) Held() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held
}

// Closed reports whether Close was called.
func (m *Mailbox) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *Mailbox) Property(buf *otp.PropertyBuffer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tag := buf.Tag()
	m.calls = append(m.calls, tag)

	if m.PropertyErr != nil {
		return m.PropertyErr
	}
	if m.rejected[tag] {
		buf.Respond(otp.ResponseError)
		return nil
	}

	var region domain.Region
	var write bool
	switch tag {
	case otp.TagGetPrivateKey:
		region = domain.RegionPrivateKey
	case otp.TagSetPrivateKey:
		region, write = domain.RegionPrivateKey, true
	case otp.TagGetCustomerOTP:
		region = domain.RegionCustomer
	case otp.TagSetCustomerOTP:
		region, write = domain.RegionCustomer, true
	default:
		buf.Respond(otp.ResponseError)
		return nil
	}

	row := m.rows[region]
	if write {
		if m.WriteErr != nil {
			return m.WriteErr
		}
		value := buf.Value()
		for i, b := range value.Bytes() {
			row[i] |= b
		}
		value.Wipe()
		if m.FlipBitOnWrite {
			row[domain.SecretSize-1] ^= 0x01
		}
	}

	current, err := domain.NewSecret(row[:])
	if err != nil {
		return err
	}
	buf.SetValue(current)
	current.Wipe()
	buf.Respond(otp.ResponseSuccess)
	return nil
}

func (m *Mailbox) Lock() (func() error, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LockErr != nil {
		return nil, m.LockErr
	}
	m.locks++
	m.held = true
	return func() error {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.held = false
		return nil
	}, nil
}

func (m *Mailbox) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
