// Package rfc4193 generates and parses Local IPv6 Unicast Address prefixes, as
// described in RFC 4193, for use as network prefixes in EUI-64 address
// derivation.
package rfc4193

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"time"

	"github.com/mdlayher/eui64calc/eui64"
	"go4.org/netipx"
)

// ula is the IPv6 Unique Local Address prefix.
var ula = netip.MustParsePrefix("fc00::/7")

var errNotULA = errors.New("rfc4193: must specify a Unique Local Address /48 or /64 IPv6 prefix")

// A Prefix represents a Local IPv6 Unicast Address prefix, as described in
// RFC 4193, section 3.1.
type Prefix struct {
	// Local indicates if the prefix is locally assigned.
	Local bool

	// GlobalID stores an identifier for a globally unique prefix.
	GlobalID [5]byte

	// SubnetID identifies an individual /64 subnet within a Prefix.
	SubnetID uint16

	// bits is the Prefix's length: 48 or 64. When zero, the length is /48 if
	// SubnetID is zero and /64 otherwise.
	bits int
}

// Bits returns the length of p: 48 or 64.
func (p Prefix) Bits() int {
	switch {
	case p.bits != 0:
		return p.bits
	case p.SubnetID == 0:
		return 48
	default:
		return 64
	}
}

// Netip produces a netip.Prefix value from a Prefix.
func (p Prefix) Netip() netip.Prefix {
	return netip.PrefixFrom(netip.AddrFrom16(p.bytes()), p.Bits())
}

// Network returns the /64 network prefix identified by p's SubnetID, ready to
// be combined with an EUI-64 interface identifier. For a /48 Prefix this is
// the /64 with subnet ID zero.
func (p Prefix) Network() eui64.Prefix {
	var n eui64.Prefix
	b := p.bytes()
	copy(n[:], b[:8])
	return n
}

// Range returns the range of addresses covered by p.
func (p Prefix) Range() netipx.IPRange { return netipx.RangeOfPrefix(p.Netip()) }

// Subnet produces a /64 Prefix with the specified subnet ID.
//
// If p is a /48 Prefix, the new /64 Prefix will be a child of that parent
// /48 Prefix.
//
// If p is a /64 Prefix (typically produced through a previous call to Subnet),
// the new /64 Prefix will be a sibling /64 Prefix of the source /64 Prefix.
func (p Prefix) Subnet(id uint16) Prefix {
	p.SubnetID = id
	p.bits = 64
	return p
}

// String returns the CIDR notation string for a Prefix.
func (p Prefix) String() string { return p.Netip().String() }

// bytes assembles the 16 byte address of p:
//
// "6) Concatenate FC00::/7, the L bit set to 1, and the 40-bit Global
// ID to create a Local IPv6 address prefix."
//
// followed by the subnet ID.
func (p Prefix) bytes() [16]byte {
	b := [16]byte{0: 0xfc}
	if p.Local {
		b[0] |= 0x01
	}

	copy(b[1:6], p.GlobalID[:])
	binary.BigEndian.PutUint16(b[6:8], p.SubnetID)
	return b
}

// Parse parses a /48 or /64 Prefix from a CIDR notation string. If s is not a
// /48 or /64 IPv6 Unique Local Address prefix, it returns an error.
func Parse(s string) (Prefix, error) {
	pfx, err := netip.ParsePrefix(s)
	if err != nil {
		return Prefix{}, err
	}

	// Only accept IPv6 ULA /48 or /64 prefixes.
	ip := pfx.Addr()
	if !ip.Is6() || ip.Is4In6() {
		return Prefix{}, fmt.Errorf("rfc4193: invalid IPv6 address: %s", s)
	}

	if pfx.Masked() != pfx || !ula.Contains(ip) || (pfx.Bits() != 48 && pfx.Bits() != 64) {
		return Prefix{}, fmt.Errorf("%w: %s", errNotULA, s)
	}

	b := ip.As16()
	p := Prefix{
		Local:    b[0]&0x01 == 1,
		SubnetID: binary.BigEndian.Uint16(b[6:8]),
		bits:     pfx.Bits(),
	}
	copy(p.GlobalID[:], b[1:6])

	return p, nil
}

// Generate produces a /48 Prefix using cryptographically-secure random bytes
// as the node identifier. It uses the algorithm specified in RFC 4193,
// section 3.2.2.
func Generate() (Prefix, error) {
	return (&generator{
		now: time.Now,
		cr:  rand.Reader,
	}).generate(nil)
}

// GenerateFromMAC produces a /48 Prefix by using the Modified EUI-64
// identifier of mac (typically the MAC address of a network interface) as the
// node identifier.
func GenerateFromMAC(mac eui64.HardwareAddr) Prefix {
	// No random bytes are read when a MAC is supplied.
	p, _ := (&generator{now: time.Now}).generate(&mac)
	return p
}

// A generator backs the logic for Generate. Its fields can be modified to
// generate deterministic output for tests.
type generator struct {
	now func() time.Time
	cr  io.Reader
}

// generate generates a Prefix using the configured generator and seed.
func (g *generator) generate(seed *eui64.HardwareAddr) (Prefix, error) {
	// Store a timestamp and 8-byte value for hash input.
	in := make([]byte, 16)

	// "1) Obtain the current time of day in 64-bit NTP format [NTP]."
	binary.BigEndian.PutUint64(in[:8], uint64(g.now().UnixNano()))

	// "2) Obtain an EUI-64 identifier from the system running this
	// algorithm.  If an EUI-64 does not exist, one can be created from
	// a 48-bit MAC address as specified in [ADDARCH].  If an EUI-64
	// cannot be obtained or created, a suitably unique identifier,
	// local to the node, should be used (e.g., system serial number)."
	//
	// "3) Concatenate the time of day with the system-specific identifier
	// in order to create a key."
	if seed != nil {
		id := eui64.NewInterfaceID(*seed)
		copy(in[8:], id[:])
	} else if _, err := io.ReadFull(g.cr, in[8:]); err != nil {
		return Prefix{}, err
	}

	// "4) Compute an SHA-1 digest on the key as specified in [FIPS, SHA1];
	// the resulting value is 160 bits."
	//
	// "5) Use the least significant 40 bits as the Global ID."
	out := sha1.Sum(in)

	// Always set to true, per RFC 4193, section 3.2.2.
	p := Prefix{
		Local: true,
		bits:  48,
	}
	copy(p.GlobalID[:], out[15:])

	return p, nil
}
