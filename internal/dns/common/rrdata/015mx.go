package rrdata

import (
	"encoding/binary"
	"fmt"

	"github.com/dnsforward/resolver/internal/dns/domain"
)

// DecodeMX reads an MX record's RDATA: a 2-byte preference followed by
// the exchange domain name, which may use message compression.
func DecodeMX(msg []byte, rdataOffset, rdataLength int) (domain.MXValue, error) {
	if rdataLength < 3 {
		return domain.MXValue{}, fmt.Errorf("rrdata: MX record too short: %d bytes", rdataLength)
	}
	pref := binary.BigEndian.Uint16(msg[rdataOffset : rdataOffset+2])
	exchange, _, err := DecodeDomainName(msg, rdataOffset+2)
	if err != nil {
		return domain.MXValue{}, err
	}
	return domain.MXValue{Priority: pref, Exchange: exchange}, nil
}

// EncodeMX renders an MX record's preference and exchange domain into
// wire format.
func EncodeMX(v domain.MXValue) ([]byte, error) {
	encoded, err := EncodeDomainName(v.Exchange)
	if err != nil {
		return nil, fmt.Errorf("rrdata: invalid MX exchange domain: %s", v.Exchange)
	}
	out := make([]byte, 2, 2+len(encoded))
	binary.BigEndian.PutUint16(out, v.Priority)
	return append(out, encoded...), nil
}
