package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	var buf bytes.Buffer
	if err := newApp(&buf).Run(context.Background(), []string{"rfc4193", "fd5a:5c39:fc1:1::/64"}); err != nil {
		t.Fatalf("failed to run: %v", err)
	}

	want := "local: true, global ID: 0x5a5c390fc1, subnet ID: 0x0001, prefix: /64, range: fd5a:5c39:fc1:1::-fd5a:5c39:fc1:1:ffff:ffff:ffff:ffff\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		suffix string
		ok     bool
	}{
		{
			name:   "MAC seed",
			args:   []string{"--mac", "de:ad:be:ef:de:ad"},
			suffix: "::/48",
			ok:     true,
		},
		{
			name:   "subnet",
			args:   []string{"--mac", "de:ad:be:ef:de:ad", "--subnet", "16"},
			suffix: ":10::/64",
			ok:     true,
		},
		{
			name: "bad MAC",
			args: []string{"--mac", "de:ad:be:ef"},
		},
		{
			name: "subnet too large",
			args: []string{"--mac", "de:ad:be:ef:de:ad", "--subnet", "65536"},
		},
		{
			name: "bad prefix",
			args: []string{"2001:db8::/48"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := newApp(&buf).Run(context.Background(), append([]string{"rfc4193"}, tt.args...))
			if tt.ok && err != nil {
				t.Fatalf("failed to run: %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("expected an error, but none occurred")
			}
			if err != nil {
				t.Logf("err: %v", err)
				return
			}

			out := strings.TrimSpace(buf.String())
			if !strings.HasPrefix(out, "fd") || !strings.HasSuffix(out, tt.suffix) {
				t.Fatalf("unexpected prefix: %q", out)
			}
		})
	}
}
