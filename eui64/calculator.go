package eui64

// A MulticastPolicy determines how a Calculator treats hardware addresses
// with the individual/group (multicast) bit set. Modified EUI-64 is defined
// for unicast addresses, but the transform is well defined for any input.
type MulticastPolicy int

// Possible MulticastPolicy values.
const (
	// AllowMulticast transforms multicast and broadcast addresses like any
	// other address.
	AllowMulticast MulticastPolicy = iota

	// RejectMulticast rejects them with a DisallowedHardwareAddress Error.
	RejectMulticast
)

// A HostBitsPolicy determines how a Calculator treats prefix text with
// non-zero bits beyond the first 64.
type HostBitsPolicy int

// Possible HostBitsPolicy values.
const (
	// DiscardHostBits silently ignores the lower 64 bits of prefix text.
	DiscardHostBits HostBitsPolicy = iota

	// RejectHostBits rejects such prefixes with a DisallowedPrefix Error.
	RejectHostBits
)

// A Calculator validates input text and computes EUI-64 derived addresses
// under a set of policies. The zero value uses AllowMulticast and
// DiscardHostBits, and is ready to use.
//
// A Calculator holds no state beyond its policies and is safe for concurrent
// use.
type Calculator struct {
	Multicast MulticastPolicy
	HostBits  HostBitsPolicy
}

// A Result is the output of a successful calculation.
type Result struct {
	InterfaceID InterfaceID
	Addr        Addr
}

// ParseMAC parses s as ParseMAC does and then applies c's MulticastPolicy.
func (c Calculator) ParseMAC(s string) (HardwareAddr, error) {
	mac, err := ParseMAC(s)
	if err != nil {
		return HardwareAddr{}, err
	}

	if c.Multicast == RejectMulticast && mac.IsMulticast() {
		return HardwareAddr{}, &Error{
			Kind:  DisallowedHardwareAddress,
			Input: s,
			Err:   ErrMACMulticast,
		}
	}

	return mac, nil
}

// ParsePrefix parses s as ParsePrefix does and then applies c's
// HostBitsPolicy.
func (c Calculator) ParsePrefix(s string) (Prefix, error) {
	a, err := ParseAddr(s)
	if err != nil {
		return Prefix{}, err
	}

	if c.HostBits == RejectHostBits && a.InterfaceID() != (InterfaceID{}) {
		return Prefix{}, &Error{
			Kind:   DisallowedPrefix,
			Input:  s,
			Err:    ErrPrefixHostBits,
			Detail: "lower 64 bits are " + a.InterfaceID().String(),
		}
	}

	return a.Prefix(), nil
}

// ValidateMAC returns an *Error describing why s is not an acceptable
// hardware address, or nil if it is.
func (c Calculator) ValidateMAC(s string) error {
	_, err := c.ParseMAC(s)
	return err
}

// ValidateIPv6Prefix returns an *Error describing why s is not an acceptable
// IPv6 prefix, or nil if it is.
func (c Calculator) ValidateIPv6Prefix(s string) error {
	_, err := c.ParsePrefix(s)
	return err
}

// Calculate parses mac and prefix and assembles the EUI-64 derived address.
// The hardware address is checked first; no partial Result is returned
// alongside an error.
func (c Calculator) Calculate(mac, prefix string) (Result, error) {
	hw, err := c.ParseMAC(mac)
	if err != nil {
		return Result{}, err
	}

	p, err := c.ParsePrefix(prefix)
	if err != nil {
		return Result{}, err
	}

	return Result{
		InterfaceID: NewInterfaceID(hw),
		Addr:        Assemble(p, hw),
	}, nil
}

// InterfaceID parses mac and derives only its interface identifier, for
// callers which have no prefix to combine it with.
func (c Calculator) InterfaceID(mac string) (InterfaceID, error) {
	hw, err := c.ParseMAC(mac)
	if err != nil {
		return InterfaceID{}, err
	}

	return NewInterfaceID(hw), nil
}

// InterfaceOutcome runs InterfaceID and reports its result as either a
// Success with an empty FullIP or a Failure.
func (c Calculator) InterfaceOutcome(mac string) Outcome {
	id, err := c.InterfaceID(mac)
	if err != nil {
		return NewOutcome(Result{}, err)
	}

	return Success{InterfaceID: id.String()}
}

// Outcome runs Calculate and reports its result as either a Success or a
// Failure.
func (c Calculator) Outcome(mac, prefix string) Outcome {
	r, err := c.Calculate(mac, prefix)
	return NewOutcome(r, err)
}

// ValidateMAC validates s using the default Calculator policies.
func ValidateMAC(s string) error { return Calculator{}.ValidateMAC(s) }

// ValidateIPv6Prefix validates s using the default Calculator policies.
func ValidateIPv6Prefix(s string) error { return Calculator{}.ValidateIPv6Prefix(s) }

// Calculate computes the EUI-64 derived address for mac and prefix using the
// default Calculator policies.
func Calculate(mac, prefix string) (Result, error) { return Calculator{}.Calculate(mac, prefix) }
