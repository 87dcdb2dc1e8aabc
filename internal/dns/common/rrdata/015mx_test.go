package rrdata

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dnsforward/resolver/internal/dns/domain"
)

func TestEncodeMX_Valid(t *testing.T) {
	tests := []struct {
		input    domain.MXValue
		expected []byte
	}{
		{
			input:    domain.MXValue{Priority: 10, Exchange: "mail.example.com"},
			expected: append([]byte{0, 10}, []byte{4, 'm', 'a', 'i', 'l', 7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0}...),
		},
		{
			input:    domain.MXValue{Priority: 0, Exchange: "mx.example.org"},
			expected: append([]byte{0, 0}, []byte{2, 'm', 'x', 7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'o', 'r', 'g', 0}...),
		},
		{
			input:    domain.MXValue{Priority: 65535, Exchange: "mail.test.net"},
			expected: append([]byte{255, 255}, []byte{4, 'm', 'a', 'i', 'l', 4, 't', 'e', 's', 't', 3, 'n', 'e', 't', 0}...),
		},
	}

	for _, tt := range tests {
		got, err := EncodeMX(tt.input)
		if err != nil {
			t.Errorf("EncodeMX(%+v) unexpected error: %v", tt.input, err)
			continue
		}
		if !bytes.Equal(got, tt.expected) {
			t.Errorf("EncodeMX(%+v) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestEncodeMX_DomainTooLong(t *testing.T) {
	longDomain := strings.Repeat("a", 256) + ".example.com"
	_, err := EncodeMX(domain.MXValue{Priority: 10, Exchange: longDomain})
	if err == nil {
		t.Errorf("EncodeMX(%q) expected error for domain too long, got nil", longDomain)
	}
}

func TestDecodeMX_Valid(t *testing.T) {
	tests := []struct {
		rdata    []byte
		expected domain.MXValue
	}{
		{
			rdata:    append([]byte{0, 10}, []byte{4, 'm', 'a', 'i', 'l', 7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0}...),
			expected: domain.MXValue{Priority: 10, Exchange: "mail.example.com"},
		},
		{
			rdata:    append([]byte{0, 0}, []byte{2, 'm', 'x', 7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'o', 'r', 'g', 0}...),
			expected: domain.MXValue{Priority: 0, Exchange: "mx.example.org"},
		},
	}

	for _, tt := range tests {
		got, err := DecodeMX(tt.rdata, 0, len(tt.rdata))
		if err != nil {
			t.Errorf("DecodeMX(%v) unexpected error: %v", tt.rdata, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("DecodeMX(%v) = %+v, want %+v", tt.rdata, got, tt.expected)
		}
	}
}

func TestDecodeMX_InvalidLength(t *testing.T) {
	invalidInputs := [][]byte{
		{},
		{0},
	}

	for _, input := range invalidInputs {
		if _, err := DecodeMX(input, 0, len(input)); err == nil {
			t.Errorf("DecodeMX(%v) expected error for invalid length, got nil", input)
		}
	}
}

func TestDecodeMX_CompressedExchange(t *testing.T) {
	msg := []byte{7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0}
	rdataOffset := len(msg)
	msg = append(msg, 0, 10, 0xC0, 0x00)

	got, err := DecodeMX(msg, rdataOffset, len(msg)-rdataOffset)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.MXValue{Priority: 10, Exchange: "example.com"}
	if got != want {
		t.Errorf("DecodeMX() = %+v, want %+v", got, want)
	}
}
