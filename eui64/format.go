package eui64

import (
	"encoding/hex"
	"strconv"
)

// String returns id as four colon-separated groups of four lowercase
// hexadecimal digits, such as "0214:22ff:fe01:2345". The groups are never
// compressed.
func (id InterfaceID) String() string {
	b := make([]byte, 0, 19)
	for i := 0; i < len(id); i += 2 {
		if i > 0 {
			b = append(b, ':')
		}

		b = hex.AppendEncode(b, id[i:i+2])
	}

	return string(b)
}

// String returns a in canonical text form: eight lowercase hexadecimal groups
// without leading zeros, with the longest run of two or more all-zero groups
// replaced by "::". When runs tie, the leftmost is replaced.
func (a Addr) String() string {
	gs := a.groups()
	start, n := longestZeroRun(gs[:])

	b := make([]byte, 0, 39)
	for i := 0; i < len(gs); i++ {
		if i == start {
			b = append(b, ':', ':')
			i += n - 1
			continue
		}

		// The group following an elision is already separated by "::".
		if i > 0 && i != start+n {
			b = append(b, ':')
		}

		b = strconv.AppendUint(b, uint64(gs[i]), 16)
	}

	return string(b)
}

// longestZeroRun returns the start index and length of the leftmost longest
// run of at least two zero groups in gs. If no such run exists, start is -1
// and n is 0.
func longestZeroRun(gs []uint16) (start, n int) {
	start = -1
	for i := 0; i < len(gs); {
		if gs[i] != 0 {
			i++
			continue
		}

		j := i
		for j < len(gs) && gs[j] == 0 {
			j++
		}

		// Strictly longer only, so the leftmost run wins ties.
		if l := j - i; l >= 2 && l > n {
			start, n = i, l
		}

		i = j
	}

	return start, n
}
