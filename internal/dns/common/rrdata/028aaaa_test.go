package rrdata

import (
	"net"
	"testing"

	"github.com/dnsforward/resolver/internal/dns/domain"
)

func TestEncodeAAAA_ValidIPv6(t *testing.T) {
	tests := []struct {
		input    domain.AAAAValue
		expected []byte
	}{
		{
			input:    "2001:db8::ff00:42:8329",
			expected: net.ParseIP("2001:db8::ff00:42:8329").To16(),
		},
		{
			input:    "::1",
			expected: net.ParseIP("::1").To16(),
		},
		{
			input:    "fe80::1",
			expected: net.ParseIP("fe80::1").To16(),
		},
	}

	for _, tt := range tests {
		got, err := EncodeAAAA(tt.input)
		if err != nil {
			t.Errorf("EncodeAAAA(%q) returned error: %v", tt.input, err)
			continue
		}
		if !equalBytes(got, tt.expected) {
			t.Errorf("EncodeAAAA(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestEncodeAAAA_InvalidIPv6(t *testing.T) {
	invalidInputs := []domain.AAAAValue{
		"not-an-ip",
		"192.168.1.1",
		"",
		"2001:db8:::ff00:42:8329",
	}

	for _, input := range invalidInputs {
		_, err := EncodeAAAA(input)
		if err == nil {
			t.Errorf("EncodeAAAA(%q) expected error, got nil", input)
		}
	}
}

func TestDecodeAAAA_Valid(t *testing.T) {
	rdata := net.ParseIP("2001:0db8::ff00:42:8329").To16()
	got, err := DecodeAAAA(rdata)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.AAAAValue("2001:db8::ff00:42:8329") {
		t.Errorf("DecodeAAAA() = %q, want %q", got, "2001:db8::ff00:42:8329")
	}
}

func TestDecodeAAAA_InvalidLength(t *testing.T) {
	if _, err := DecodeAAAA([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for short RDATA")
	}
}
