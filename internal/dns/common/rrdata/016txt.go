package rrdata

import (
	"fmt"

	"github.com/dnsforward/resolver/internal/dns/domain"
)

// DecodeTXT reads a TXT record's RDATA as a sequence of length-prefixed
// character-strings (RFC 1035 section 3.3.14). Parsing stops at the end
// of rdata or as soon as a zero-length segment is seen, whichever comes
// first; bytes after a zero-length segment are never treated as further
// segments.
func DecodeTXT(rdata []byte) (domain.TXTValue, error) {
	var segments domain.TXTValue
	pos := 0
	for pos < len(rdata) {
		length := int(rdata[pos])
		pos++
		if length == 0 {
			break
		}
		if pos+length > len(rdata) {
			return nil, fmt.Errorf("rrdata: TXT segment overruns RDATA at offset %d", pos-1)
		}
		segments = append(segments, string(rdata[pos:pos+length]))
		pos += length
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("rrdata: TXT record must contain at least one segment")
	}
	return segments, nil
}

// EncodeTXT renders a TXT record's segments into wire format.
func EncodeTXT(v domain.TXTValue) ([]byte, error) {
	if len(v) == 0 {
		return nil, fmt.Errorf("rrdata: TXT record must contain at least one segment")
	}
	var encoded []byte
	for _, segment := range v {
		if len(segment) > 255 {
			return nil, fmt.Errorf("rrdata: TXT segment too long: %d bytes", len(segment))
		}
		encoded = append(encoded, byte(len(segment)))
		encoded = append(encoded, segment...)
	}
	return encoded, nil
}
