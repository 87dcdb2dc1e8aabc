package ipaddr

import (
	"net"
	"testing"
)

func TestFormatIPv4(t *testing.T) {
	got, err := FormatIPv4(net.ParseIP("93.184.216.34"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "93.184.216.34" {
		t.Errorf("FormatIPv4 = %q, want %q", got, "93.184.216.34")
	}
}

func TestFormatIPv4_RejectsIPv6(t *testing.T) {
	if _, err := FormatIPv4(net.ParseIP("::1")); err == nil {
		t.Errorf("expected error formatting an IPv6 address as IPv4")
	}
}

func TestCanonicalIPv6(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"2001:0db8:0000:0000:0000:0000:0000:0001", "2001:db8::1"},
		{"2001:db8::", "2001:db8::"},
		{"::1", "::1"},
		{"::", "::"},
		{"fe80:0:0:0:1:2:3:4", "fe80::1:2:3:4"},
		{"1:0:2:3:4:5:6:7", "1:0:2:3:4:5:6:7"}, // single zero group never compressed
		// two equal-length zero runs: leftmost wins
		{"2001:0:0:1:0:0:1:1", "2001::1:0:0:1:1"},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := CanonicalIPv6(net.ParseIP(tc.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("CanonicalIPv6(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestReverseIPv4(t *testing.T) {
	got, err := ReverseIPv4(net.ParseIP("1.2.3.4"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "4.3.2.1.in-addr.arpa"
	if got != want {
		t.Errorf("ReverseIPv4 = %q, want %q", got, want)
	}
}

func TestReverseIPv6(t *testing.T) {
	got, err := ReverseIPv6(net.ParseIP("2001:db8::1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "1.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.8.b.d.0.1.0.0.2.ip6.arpa"
	if got != want {
		t.Errorf("ReverseIPv6 = %q, want %q", got, want)
	}
}

func TestReverse_DispatchesByFamily(t *testing.T) {
	v4, err := Reverse(net.ParseIP("1.2.3.4"))
	if err != nil || v4 != "4.3.2.1.in-addr.arpa" {
		t.Errorf("Reverse(IPv4) = %q, %v", v4, err)
	}
	v6, err := Reverse(net.ParseIP("::1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v6[len(v6)-8:] != "ip6.arpa" {
		t.Errorf("Reverse(IPv6) did not produce an ip6.arpa name: %q", v6)
	}
}

func TestParseIP_Invalid(t *testing.T) {
	if _, err := ParseIP("not-an-ip"); err == nil {
		t.Errorf("expected error for invalid IP string")
	}
}

func TestIsIPv4AndIsIPv6(t *testing.T) {
	if !IsIPv4(net.ParseIP("1.2.3.4")) {
		t.Errorf("expected 1.2.3.4 to be IPv4")
	}
	if IsIPv4(net.ParseIP("::1")) {
		t.Errorf("expected ::1 to not be IPv4")
	}
	if !IsIPv6(net.ParseIP("::1")) {
		t.Errorf("expected ::1 to be IPv6")
	}
	if IsIPv6(net.ParseIP("1.2.3.4")) {
		t.Errorf("expected 1.2.3.4 to not be IPv6")
	}
}
