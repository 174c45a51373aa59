package eui64

import (
	"fmt"
	"strings"
)

// ParseMAC parses s as a MAC-48 hardware address: exactly 6 groups of 2
// hexadecimal digits joined by a single consistent ':' or '-' separator, such
// as "00:14:22:01:23:45" or "00-14-22-01-23-45". Surrounding whitespace is
// not trimmed.
//
// ParseMAC applies no policy to the parsed address; see Calculator for
// multicast rejection.
func ParseMAC(s string) (HardwareAddr, error) {
	if s == "" {
		return HardwareAddr{}, macError(s, ErrMACEmpty, "")
	}

	// Determine the separator actually present before splitting.
	var sep string
	switch colon, dash := strings.Contains(s, ":"), strings.Contains(s, "-"); {
	case colon && dash:
		return HardwareAddr{}, macError(s, ErrMACSeparator, "mixed ':' and '-'")
	case colon:
		sep = ":"
	case dash:
		sep = "-"
	default:
		return HardwareAddr{}, macError(s, ErrMACGroupCount, "found 1 group")
	}

	if strings.HasPrefix(s, sep) || strings.HasSuffix(s, sep) {
		return HardwareAddr{}, macError(s, ErrMACSeparator, "leading or trailing separator")
	}

	groups := strings.Split(s, sep)
	if len(groups) != len(HardwareAddr{}) {
		return HardwareAddr{}, macError(s, ErrMACGroupCount, fmt.Sprintf("found %d groups", len(groups)))
	}

	var mac HardwareAddr
	for i, g := range groups {
		if len(g) != 2 {
			return HardwareAddr{}, macError(s, ErrMACGroupLength, fmt.Sprintf("group %d is %q", i+1, g))
		}

		hi, lo := unhex(g[0]), unhex(g[1])
		if hi < 0 || lo < 0 {
			return HardwareAddr{}, macError(s, ErrMACHexDigit, fmt.Sprintf("group %d is %q", i+1, g))
		}

		mac[i] = byte(hi<<4 | lo)
	}

	return mac, nil
}

// ParsePrefix parses s as IPv6 text and returns its upper 64 bits. The lower
// 64 bits, if present, are validated and then discarded, so "2001:db8::1" and
// "2001:db8::" produce the same Prefix. Use a Calculator with RejectHostBits
// to reject them instead.
func ParsePrefix(s string) (Prefix, error) {
	a, err := ParseAddr(s)
	if err != nil {
		return Prefix{}, err
	}

	return a.Prefix(), nil
}

// ParseAddr parses s as IPv6 text: up to 8 groups of 1 to 4 hexadecimal
// digits separated by ':', with at most one "::" standing for one or more
// all-zero groups. Text without "::" and with fewer than 8 groups, such as
// "2001:db8:85a3:0", is treated as a leading prefix and padded with zero
// groups. IPv4 dotted notation and zones are not accepted.
func ParseAddr(s string) (Addr, error) {
	if s == "" {
		return Addr{}, prefixError(s, ErrPrefixEmpty, "")
	}

	// ":::" would otherwise be split as "::" followed by an empty group.
	if strings.Contains(s, ":::") || strings.Count(s, "::") > 1 {
		return Addr{}, prefixError(s, ErrPrefixMultipleElision, "")
	}

	head, tail, elided := strings.Cut(s, "::")

	hs, err := splitGroups(s, head, 0)
	if err != nil {
		return Addr{}, err
	}

	ts, err := splitGroups(s, tail, len(hs))
	if err != nil {
		return Addr{}, err
	}

	// An elision must stand for at least one zero group.
	limit := 8
	if elided {
		limit = 7
	}
	if n := len(hs) + len(ts); n > limit {
		detail := fmt.Sprintf("found %d groups", n)
		if elided {
			detail += " and '::'"
		}
		return Addr{}, prefixError(s, ErrPrefixGroupCount, detail)
	}

	var gs [8]uint16
	copy(gs[:], hs)
	copy(gs[len(gs)-len(ts):], ts)

	var a Addr
	for i, g := range gs {
		a[i*2] = byte(g >> 8)
		a[i*2+1] = byte(g)
	}

	return a, nil
}

// splitGroups parses the ':' separated groups in part, which is one side of
// an optional "::" in the original input in. offset is the number of groups
// preceding part and is only used to report group positions.
func splitGroups(in, part string, offset int) ([]uint16, error) {
	if part == "" {
		return nil, nil
	}

	fields := strings.Split(part, ":")
	if len(fields) > 8 {
		return nil, prefixError(in, ErrPrefixGroupCount, fmt.Sprintf("found at least %d groups", offset+len(fields)))
	}

	gs := make([]uint16, 0, len(fields))
	for i, f := range fields {
		pos := offset + i + 1
		if f == "" {
			return nil, prefixError(in, ErrPrefixEmptyGroup, fmt.Sprintf("group %d", pos))
		}

		var v uint16
		for j := 0; j < len(f); j++ {
			d := unhex(f[j])
			if d < 0 {
				return nil, prefixError(in, ErrPrefixHexDigit, fmt.Sprintf("group %d is %q", pos, f))
			}

			v = v<<4 | uint16(d)
		}

		if len(f) > 4 {
			return nil, prefixError(in, ErrPrefixGroupLength, fmt.Sprintf("group %d is %q", pos, f))
		}

		gs = append(gs, v)
	}

	return gs, nil
}

// unhex returns the value of hexadecimal digit c, or -1 if c is not a
// hexadecimal digit.
func unhex(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c - 'a' + 10)
	case 'A' <= c && c <= 'F':
		return int(c - 'A' + 10)
	default:
		return -1
	}
}
