package eui64_test

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/mdlayher/eui64calc/eui64"
)

func ExampleCalculate() {
	r, err := eui64.Calculate("00-14-22-01-23-45", "2001:db8::")
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("interface ID:", r.InterfaceID)
	fmt.Println("address:     ", r.Addr)
	// Output:
	// interface ID: 0214:22ff:fe01:2345
	// address:      2001:db8::214:22ff:fe01:2345
}

func ExampleCalculator_Outcome() {
	c := eui64.Calculator{Multicast: eui64.RejectMulticast}

	for _, mac := range []string{"00:14:22:01:23:45", "01:00:5e:00:00:01"} {
		switch o := c.Outcome(mac, "fe80::").(type) {
		case eui64.Success:
			fmt.Println("ok:", o.FullIP)
		case eui64.Failure:
			fmt.Println(o.Kind)
		}
	}
	// Output:
	// ok: fe80::214:22ff:fe01:2345
	// disallowed_hardware_address
}

func ExampleParseMAC() {
	_, err := eui64.ParseMAC("00:14:22:01:23")
	fmt.Println(errors.Is(err, eui64.ErrMACGroupCount))
	fmt.Println(eui64.KindOf(err))
	// Output:
	// true
	// malformed_hardware_address
}

func ExampleParseIP() {
	prefix, mac, err := eui64.ParseIP(netip.MustParseAddr("2001:db8::214:22ff:fe01:2345"))
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(prefix)
	fmt.Println(mac)
	// Output:
	// 2001:db8::/64
	// 00:14:22:01:23:45
}
