package domain

import (
	"fmt"
)

// Region identifies one of the two mutually exclusive OTP locations that can hold the
// device secret.
//
// Exactly one region is targeted per invocation. Mixing regions between init and
// derive calls for the same device cannot be detected here; callers must pass the same
// selection consistently.
type Region int

const (
	// RegionPrivateKey is the SoC private-key OTP block (rows 56 to 63). Requires recent
	// firmware.
	RegionPrivateKey Region = iota
	// RegionCustomer is the customer-programmable OTP block (rows 36 to 43).
	RegionCustomer
)

// String returns the canonical region name.
func (r Region) String() string {
	switch r {
	case RegionPrivateKey:
		return "private-key"
	case RegionCustomer:
		return "customer"
	default:
		return fmt.Sprintf("region(%d)", int(r))
	}
}

// AllRegions returns every region in reporting order.
func AllRegions() []Region {
	return []Region{RegionPrivateKey, RegionCustomer}
}

// RegionFromFlag maps the "use customer region" switch to a Region.
func RegionFromFlag(useCustomer bool) Region {
	if useCustomer {
		return RegionCustomer
	}
	return RegionPrivateKey
}

// ParseRegion parses the canonical region name.
func ParseRegion(s string) (Region, error) {
	switch s {
	case "private-key":
		return RegionPrivateKey, nil
	case "customer":
		return RegionCustomer, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidRegion, s)
	}
}

// RegionStatus is the observable state of an OTP region.
//
// Uninitialized moves to Initialized exactly once. Initialized has no outgoing
// transition and Unsupported is terminal: it is only ever observed through a probe.
type RegionStatus int

const (
	StatusUninitialized RegionStatus = iota
	StatusInitialized
	StatusUnsupported
)

// String returns a lower-case status name suitable for text and JSON output.
func (s RegionStatus) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusInitialized:
		return "initialized"
	case StatusUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// RegionReport is the probed status of one region. Err is set when the probe failed.
type RegionReport struct {
	Region Region
	Status RegionStatus
	Err    error
}

// InitOutcome reports what a successful initialization did.
type InitOutcome int

const (
	// OutcomeInitialized means a fresh secret was programmed by this call.
	OutcomeInitialized InitOutcome = iota
	// OutcomeAlreadyInitialized means the region held a secret already; nothing was written.
	OutcomeAlreadyInitialized
)

func (o InitOutcome) String() string {
	switch o {
	case OutcomeInitialized:
		return "initialized"
	case OutcomeAlreadyInitialized:
		return "already-initialized"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// StoreInfo describes which backend a secret store is bound to. It carries no secret data
// and is safe to print.
type StoreInfo struct {
	Region   Region
	Backend  string
	Override bool
}
