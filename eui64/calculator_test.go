package eui64

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name   string
		mac    string
		prefix string
		id     string
		ip     string
		kind   Kind
	}{
		{
			name:   "OK dash",
			mac:    "00-14-22-01-23-45",
			prefix: "2001:db8::",
			id:     "0214:22ff:fe01:2345",
			ip:     "2001:db8::214:22ff:fe01:2345",
		},
		{
			name:   "OK colon with four group prefix",
			mac:    "00:14:22:01:23:45",
			prefix: "2001:db8:85a3:0",
			id:     "0214:22ff:fe01:2345",
			ip:     "2001:db8:85a3:0:214:22ff:fe01:2345",
		},
		{
			name:   "OK host bits discarded",
			mac:    "00:14:22:01:23:45",
			prefix: "2001:db8::dead:beef",
			id:     "0214:22ff:fe01:2345",
			ip:     "2001:db8::214:22ff:fe01:2345",
		},
		{
			name:   "OK all zero prefix",
			mac:    "02:00:00:00:00:00",
			prefix: "::",
			id:     "0000:00ff:fe00:0000",
			ip:     "::ff:fe00:0",
		},
		{
			name:   "OK multicast allowed",
			mac:    "01:00:5e:00:00:01",
			prefix: "fe80::",
			id:     "0300:5eff:fe00:0001",
			ip:     "fe80::300:5eff:fe00:1",
		},
		{
			name:   "bad MAC",
			mac:    "00:14:22:01:23",
			prefix: "2001:db8::",
			kind:   MalformedHardwareAddress,
		},
		{
			name:   "bad prefix",
			mac:    "00:14:22:01:23:45",
			prefix: "2001:db8:::1",
			kind:   MalformedPrefix,
		},
		{
			name:   "both bad reports MAC",
			mac:    "zz",
			prefix: "zz",
			kind:   MalformedHardwareAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Calculate(tt.mac, tt.prefix)
			if tt.kind == 0 && err != nil {
				t.Fatalf("failed to calculate: %v", err)
			}
			if tt.kind != 0 {
				if diff := cmp.Diff(tt.kind, KindOf(err)); diff != "" {
					t.Fatalf("unexpected error Kind (-want +got):\n%s", diff)
				}
				if diff := cmp.Diff(Result{}, r); diff != "" {
					t.Fatalf("expected no partial result (-want +got):\n%s", diff)
				}
				return
			}

			if diff := cmp.Diff(tt.id, r.InterfaceID.String()); diff != "" {
				t.Fatalf("unexpected interface ID (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.ip, r.Addr.String()); diff != "" {
				t.Fatalf("unexpected address (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCalculatorPolicies(t *testing.T) {
	tests := []struct {
		name   string
		c      Calculator
		mac    string
		prefix string
		kind   Kind
		rule   error
	}{
		{
			name:   "reject multicast passes unicast",
			c:      Calculator{Multicast: RejectMulticast},
			mac:    "00:14:22:01:23:45",
			prefix: "2001:db8::",
		},
		{
			name:   "reject multicast",
			c:      Calculator{Multicast: RejectMulticast},
			mac:    "01:00:5e:00:00:01",
			prefix: "2001:db8::",
			kind:   DisallowedHardwareAddress,
			rule:   ErrMACMulticast,
		},
		{
			name:   "reject broadcast",
			c:      Calculator{Multicast: RejectMulticast},
			mac:    "ff-ff-ff-ff-ff-ff",
			prefix: "2001:db8::",
			kind:   DisallowedHardwareAddress,
			rule:   ErrMACMulticast,
		},
		{
			name:   "reject multicast still reports malformed first",
			c:      Calculator{Multicast: RejectMulticast},
			mac:    "01:00:5e:00:00",
			prefix: "2001:db8::",
			kind:   MalformedHardwareAddress,
			rule:   ErrMACGroupCount,
		},
		{
			name:   "reject host bits passes /64",
			c:      Calculator{HostBits: RejectHostBits},
			mac:    "00:14:22:01:23:45",
			prefix: "2001:db8:0:1::",
		},
		{
			name:   "reject host bits",
			c:      Calculator{HostBits: RejectHostBits},
			mac:    "00:14:22:01:23:45",
			prefix: "2001:db8::1",
			kind:   DisallowedPrefix,
			rule:   ErrPrefixHostBits,
		},
		{
			name:   "discard host bits",
			mac:    "00:14:22:01:23:45",
			prefix: "2001:db8::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.c.Calculate(tt.mac, tt.prefix)
			if tt.kind == 0 {
				if err != nil {
					t.Fatalf("failed to calculate: %v", err)
				}
				return
			}

			testError(t, err, tt.kind, tt.rule)

			// The validators must agree with Calculate.
			verr := errors.Join(tt.c.ValidateMAC(tt.mac), tt.c.ValidateIPv6Prefix(tt.prefix))
			if !errors.Is(verr, tt.rule) {
				t.Fatalf("validators did not report rule %q: %v", tt.rule, verr)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := ValidateMAC("00-14-22-01-23-45"); err != nil {
		t.Fatalf("failed to validate MAC: %v", err)
	}
	if err := ValidateIPv6Prefix("2001:db8::"); err != nil {
		t.Fatalf("failed to validate prefix: %v", err)
	}

	if diff := cmp.Diff(MalformedHardwareAddress, KindOf(ValidateMAC("00:14:22:01:23"))); diff != "" {
		t.Fatalf("unexpected MAC error Kind (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(MalformedPrefix, KindOf(ValidateIPv6Prefix("2001:db8:::1"))); diff != "" {
		t.Fatalf("unexpected prefix error Kind (-want +got):\n%s", diff)
	}
}

func TestCalculateIdempotent(t *testing.T) {
	want, err := Calculate("00-14-22-01-23-45", "2001:db8::")
	if err != nil {
		t.Fatalf("failed to calculate: %v", err)
	}

	// Concurrent calls share no state and must agree byte for byte.
	var wg sync.WaitGroup
	results := make([]Result, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Calculate("00-14-22-01-23-45", "2001:db8::")
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if diff := cmp.Diff(want, r); diff != "" {
			t.Fatalf("result %d differs (-want +got):\n%s", i, diff)
		}
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		name   string
		c      Calculator
		mac    string
		prefix string
		want   Outcome
	}{
		{
			name:   "success",
			mac:    "00-14-22-01-23-45",
			prefix: "2001:db8::",
			want: Success{
				InterfaceID: "0214:22ff:fe01:2345",
				FullIP:      "2001:db8::214:22ff:fe01:2345",
			},
		},
		{
			name:   "malformed prefix",
			mac:    "00-14-22-01-23-45",
			prefix: "2001:db8:::1",
			want: Failure{
				Kind:    MalformedPrefix,
				Message: `eui64: invalid prefix "2001:db8:::1": prefix contains more than one '::'`,
			},
		},
		{
			name:   "disallowed",
			c:      Calculator{Multicast: RejectMulticast},
			mac:    "33:33:00:00:00:01",
			prefix: "2001:db8::",
			want: Failure{
				Kind:    DisallowedHardwareAddress,
				Message: `eui64: invalid hardware address "33:33:00:00:00:01": hardware address has the multicast bit set`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.c.Outcome(tt.mac, tt.prefix)); diff != "" {
				t.Fatalf("unexpected Outcome (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewOutcomeForeignError(t *testing.T) {
	want := Failure{Message: "some error"}
	if diff := cmp.Diff(Outcome(want), NewOutcome(Result{}, errors.New("some error"))); diff != "" {
		t.Fatalf("unexpected Outcome (-want +got):\n%s", diff)
	}

	if NewFailure(nil) != nil {
		t.Fatal("expected nil Failure for nil error")
	}
}

func TestInterfaceOutcome(t *testing.T) {
	tests := []struct {
		name string
		c    Calculator
		mac  string
		want Outcome
	}{
		{
			name: "success",
			mac:  "00:14:22:01:23:45",
			want: Success{InterfaceID: "0214:22ff:fe01:2345"},
		},
		{
			name: "malformed",
			mac:  "00:14:22:01:23",
			want: Failure{
				Kind:    MalformedHardwareAddress,
				Message: `eui64: invalid hardware address "00:14:22:01:23": hardware address must contain exactly 6 groups (found 5 groups)`,
			},
		},
		{
			name: "disallowed",
			c:    Calculator{Multicast: RejectMulticast},
			mac:  "ff:ff:ff:ff:ff:ff",
			want: Failure{
				Kind:    DisallowedHardwareAddress,
				Message: `eui64: invalid hardware address "ff:ff:ff:ff:ff:ff": hardware address has the multicast bit set`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.c.InterfaceOutcome(tt.mac)); diff != "" {
				t.Fatalf("unexpected Outcome (-want +got):\n%s", diff)
			}
		})
	}
}
