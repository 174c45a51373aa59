package eui64

import (
	"errors"
	"fmt"
)

// A Kind classifies an Error by the input and stage that rejected it.
type Kind int

// Possible Kinds of Error. The EUI-64 assembly itself has no Kind because it
// cannot fail once both inputs are parsed.
const (
	_ Kind = iota
	MalformedHardwareAddress
	DisallowedHardwareAddress
	MalformedPrefix
	DisallowedPrefix
)

// String returns the snake_case name of k, as used in API responses.
func (k Kind) String() string {
	switch k {
	case MalformedHardwareAddress:
		return "malformed_hardware_address"
	case DisallowedHardwareAddress:
		return "disallowed_hardware_address"
	case MalformedPrefix:
		return "malformed_prefix"
	case DisallowedPrefix:
		return "disallowed_prefix"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Rules which may be violated by input text. Each Error wraps exactly one of
// these, so callers can use errors.Is to determine which rule was broken.
var (
	ErrMACEmpty       = errors.New("hardware address is empty")
	ErrMACSeparator   = errors.New("hardware address groups must be joined by a single consistent ':' or '-' separator")
	ErrMACGroupCount  = errors.New("hardware address must contain exactly 6 groups")
	ErrMACGroupLength = errors.New("hardware address groups must be exactly 2 hex digits")
	ErrMACHexDigit    = errors.New("hardware address contains a non-hex digit")
	ErrMACMulticast   = errors.New("hardware address has the multicast bit set")

	ErrPrefixEmpty           = errors.New("prefix is empty")
	ErrPrefixMultipleElision = errors.New("prefix contains more than one '::'")
	ErrPrefixEmptyGroup      = errors.New("prefix contains an empty group")
	ErrPrefixGroupLength     = errors.New("prefix groups must be 1 to 4 hex digits")
	ErrPrefixHexDigit        = errors.New("prefix contains a non-hex digit")
	ErrPrefixGroupCount      = errors.New("prefix contains more than 8 groups")
	ErrPrefixHostBits        = errors.New("prefix has non-zero bits beyond /64")
)

// An Error is returned when input text cannot be parsed or is rejected by a
// policy. Err is one of the rule errors exported by this package.
type Error struct {
	Kind  Kind
	Input string
	Err   error

	// Detail optionally locates the violation, such as the offending group.
	Detail string
}

// Error implements error.
func (e *Error) Error() string {
	var what string
	switch e.Kind {
	case MalformedHardwareAddress, DisallowedHardwareAddress:
		what = "hardware address"
	default:
		what = "prefix"
	}

	if e.Detail == "" {
		return fmt.Sprintf("eui64: invalid %s %q: %v", what, e.Input, e.Err)
	}

	return fmt.Sprintf("eui64: invalid %s %q: %v (%s)", what, e.Input, e.Err, e.Detail)
}

// Unwrap returns the rule error which e wraps.
func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain, or 0 if err
// carries no *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return 0
}

// macError and prefixError are shorthand for constructing parse errors.
func macError(in string, rule error, detail string) error {
	return &Error{Kind: MalformedHardwareAddress, Input: in, Err: rule, Detail: detail}
}

func prefixError(in string, rule error, detail string) error {
	return &Error{Kind: MalformedPrefix, Input: in, Err: rule, Detail: detail}
}
