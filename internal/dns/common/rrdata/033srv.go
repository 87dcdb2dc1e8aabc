package rrdata

import (
	"encoding/binary"
	"fmt"

	"github.com/dnsforward/resolver/internal/dns/domain"
)

// DecodeSRV reads an SRV record's RDATA: priority, weight, and port as
// 2-byte fields followed by the target domain name, which may use
// message compression.
func DecodeSRV(msg []byte, rdataOffset, rdataLength int) (domain.SRVValue, error) {
	if rdataLength < 7 {
		return domain.SRVValue{}, fmt.Errorf("rrdata: SRV record too short: %d bytes", rdataLength)
	}
	priority := binary.BigEndian.Uint16(msg[rdataOffset : rdataOffset+2])
	weight := binary.BigEndian.Uint16(msg[rdataOffset+2 : rdataOffset+4])
	port := binary.BigEndian.Uint16(msg[rdataOffset+4 : rdataOffset+6])

	target, _, err := DecodeDomainName(msg, rdataOffset+6)
	if err != nil {
		return domain.SRVValue{}, fmt.Errorf("rrdata: invalid SRV target: %w", err)
	}

	return domain.SRVValue{Priority: priority, Weight: weight, Port: port, Target: target}, nil
}

// EncodeSRV renders an SRV record's fields into wire format.
func EncodeSRV(v domain.SRVValue) ([]byte, error) {
	buf := make([]byte, 6)
	binary.BigEndian.PutUint16(buf[0:], v.Priority)
	binary.BigEndian.PutUint16(buf[2:], v.Weight)
	binary.BigEndian.PutUint16(buf[4:], v.Port)

	target, err := EncodeDomainName(v.Target)
	if err != nil {
		return nil, fmt.Errorf("rrdata: invalid SRV target: %w", err)
	}
	return append(buf, target...), nil
}
