package rrdata

import (
	"testing"

	"github.com/dnsforward/resolver/internal/dns/domain"
)

func TestDecode_SwitchCoverage(t *testing.T) {
	tests := []struct {
		name    string
		rrType  domain.RRType
		wire    []byte
		wantErr bool
	}{
		{"A", domain.RRTypeA, []byte{192, 0, 2, 1}, false},
		{"NS", domain.RRTypeNS, []byte{2, 'n', 's', 7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0}, false},
		{"CNAME", domain.RRTypeCNAME, []byte{5, 'a', 'l', 'i', 'a', 's', 7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0}, false},
		{"SOA", domain.RRTypeSOA, []byte{2, 'n', 's', 7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0, 10, 'h', 'o', 's', 't', 'm', 'a', 's', 't', 'e', 'r', 7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0, 4, 0, 0, 0, 5}, false},
		{"PTR", domain.RRTypePTR, []byte{3, 'p', 't', 'r', 7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0}, false},
		{"MX", domain.RRTypeMX, append([]byte{0, 10}, []byte{4, 'm', 'a', 'i', 'l', 7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0}...), false},
		{"TXT", domain.RRTypeTXT, append([]byte{11}, []byte("hello world")...), false},
		{"AAAA", domain.RRTypeAAAA, []byte{32, 1, 13, 184, 0, 0, 255, 0, 66, 131, 41, 0, 0, 0, 0, 1}, false},
		{"SRV", domain.RRTypeSRV, append([]byte{0, 1, 0, 2, 0, 80}, []byte{6, 't', 'a', 'r', 'g', 'e', 't', 7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0}...), false},
		{"CAA", domain.RRTypeCAA, append([]byte{0, 5}, append([]byte("issue"), []byte("letsencrypt.org")...)...), false},
		{"unsupported type", domain.RRType(9999), []byte("raw-bytes"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.rrType, tt.wire, 0, len(tt.wire))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s, got nil", tt.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %s: %v", tt.name, err)
			}
			if got == nil {
				t.Fatalf("expected non-nil value for %s", tt.name)
			}
		})
	}
}

func TestDecode_OutOfBounds(t *testing.T) {
	if _, err := Decode(domain.RRTypeA, []byte{1, 2, 3}, 0, 10); err == nil {
		t.Error("expected error for RDATA bounds exceeding the message")
	}
}
