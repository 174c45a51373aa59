// Package eui64 derives IPv6 addresses from MAC-48 hardware addresses and /64
// network prefixes using Modified EUI-64 format interface identifiers, as
// described in RFC 4291, Section 2.5.1 and Appendix A.
//
// The package is stateless: every function is a pure computation over its
// arguments and is safe for concurrent use.
package eui64

import (
	"encoding/binary"
	"errors"
	"net"
	"net/netip"
)

// Possible errors due to bad input to ParseIP.
var (
	errInvalidIP    = errors.New("eui64: IP must be an IPv6 address")
	errNotDerivedID = errors.New("eui64: interface identifier was not derived from an EUI-48 MAC address")
)

// A HardwareAddr is a MAC-48 (EUI-48) hardware address. The first byte holds
// the universal/local and individual/group bits.
type HardwareAddr [6]byte

// IsMulticast reports whether the individual/group bit of mac is set.
func (mac HardwareAddr) IsMulticast() bool { return mac[0]&0x01 != 0 }

// IsLocal reports whether the universal/local bit of mac is set.
func (mac HardwareAddr) IsLocal() bool { return mac[0]&0x02 != 0 }

// Net returns mac as a net.HardwareAddr.
func (mac HardwareAddr) Net() net.HardwareAddr {
	out := make(net.HardwareAddr, len(mac))
	copy(out, mac[:])
	return out
}

// String returns mac in lowercase colon-separated form.
func (mac HardwareAddr) String() string { return mac.Net().String() }

// A Prefix is the upper 64 bits of an IPv6 address: the /64 network prefix
// to which an InterfaceID is appended.
type Prefix [8]byte

// Netip returns p as a /64 netip.Prefix.
func (p Prefix) Netip() netip.Prefix {
	return netip.PrefixFrom(Addr{}.withPrefix(p).Netip(), 64)
}

// String returns p in canonical CIDR notation, such as "2001:db8::/64".
func (p Prefix) String() string { return Addr{}.withPrefix(p).String() + "/64" }

// An InterfaceID is a Modified EUI-64 format interface identifier: the lower
// 64 bits of an IPv6 address.
type InterfaceID [8]byte

// NewInterfaceID derives the Modified EUI-64 interface identifier for mac.
func NewInterfaceID(mac HardwareAddr) InterfaceID {
	// Split the first three bytes and last three bytes, and inject 0xff and
	// 0xfe between them.
	var id InterfaceID
	copy(id[0:3], mac[0:3])
	id[3] = 0xff
	id[4] = 0xfe
	copy(id[5:8], mac[3:6])

	// Flip 7th bit from left on the first byte of the MAC address, the
	// "universal/local (U/L)" bit.  See RFC 4291, Section 2.5.1 for more
	// information.
	id[0] ^= 0x02

	return id
}

// HardwareAddr recovers the MAC address from which id was derived. It
// returns false if id does not carry the 0xff, 0xfe marker in its middle
// bytes.
func (id InterfaceID) HardwareAddr() (HardwareAddr, bool) {
	if id[3] != 0xff || id[4] != 0xfe {
		return HardwareAddr{}, false
	}

	var mac HardwareAddr
	copy(mac[0:3], id[0:3])
	copy(mac[3:6], id[5:8])
	mac[0] ^= 0x02

	return mac, true
}

// An Addr is a 128-bit IPv6 address.
type Addr [16]byte

// Assemble produces the IPv6 address formed by prefix followed by the
// interface identifier derived from mac.
func Assemble(prefix Prefix, mac HardwareAddr) Addr {
	id := NewInterfaceID(mac)

	var a Addr
	copy(a[0:8], prefix[:])
	copy(a[8:16], id[:])
	return a
}

// Prefix returns the first 8 bytes of a.
func (a Addr) Prefix() Prefix {
	var p Prefix
	copy(p[:], a[0:8])
	return p
}

// InterfaceID returns the last 8 bytes of a.
func (a Addr) InterfaceID() InterfaceID {
	var id InterfaceID
	copy(id[:], a[8:16])
	return id
}

// Netip returns a as a netip.Addr.
func (a Addr) Netip() netip.Addr { return netip.AddrFrom16(a) }

// groups returns a as eight big endian 16-bit groups.
func (a Addr) groups() [8]uint16 {
	var gs [8]uint16
	for i := range gs {
		gs[i] = binary.BigEndian.Uint16(a[i*2 : i*2+2])
	}

	return gs
}

// withPrefix returns a copy of a with its upper 64 bits replaced by p.
func (a Addr) withPrefix(p Prefix) Addr {
	copy(a[0:8], p[:])
	return a
}

// ParseIP parses an IPv6 address produced by Assemble to retrieve its /64
// prefix and the MAC address its interface identifier was derived from. ip
// must be an IPv6 address whose interface identifier contains the 0xff, 0xfe
// marker, or an error is returned.
func ParseIP(ip netip.Addr) (Prefix, HardwareAddr, error) {
	if !ip.Is6() || ip.Is4In6() {
		return Prefix{}, HardwareAddr{}, errInvalidIP
	}

	a := Addr(ip.As16())
	mac, ok := a.InterfaceID().HardwareAddr()
	if !ok {
		return Prefix{}, HardwareAddr{}, errNotDerivedID
	}

	return a.Prefix(), mac, nil
}
