package rrdata

import (
	"encoding/binary"
	"fmt"

	"github.com/dnsforward/resolver/internal/dns/domain"
)

// DecodeSOA reads an SOA record's RDATA: two compression-eligible domain
// names (the primary nameserver and the responsible mailbox) followed
// by five 32-bit integer fields.
func DecodeSOA(msg []byte, rdataOffset, rdataLength int) (domain.SOAValue, error) {
	end := rdataOffset + rdataLength

	nsname, next, err := DecodeDomainName(msg, rdataOffset)
	if err != nil {
		return domain.SOAValue{}, fmt.Errorf("rrdata: invalid SOA mname: %w", err)
	}

	hostmaster, next, err := DecodeDomainName(msg, next)
	if err != nil {
		return domain.SOAValue{}, fmt.Errorf("rrdata: invalid SOA rname: %w", err)
	}

	if end-next < 20 {
		return domain.SOAValue{}, fmt.Errorf("rrdata: SOA record missing integer fields")
	}

	return domain.SOAValue{
		NSName:     nsname,
		Hostmaster: hostmaster,
		Serial:     binary.BigEndian.Uint32(msg[next : next+4]),
		Refresh:    binary.BigEndian.Uint32(msg[next+4 : next+8]),
		Retry:      binary.BigEndian.Uint32(msg[next+8 : next+12]),
		Expire:     binary.BigEndian.Uint32(msg[next+12 : next+16]),
		MinTTL:     binary.BigEndian.Uint32(msg[next+16 : next+20]),
	}, nil
}

// EncodeSOA renders an SOA record's fields into wire format.
func EncodeSOA(v domain.SOAValue) ([]byte, error) {
	nsname, err := EncodeDomainName(v.NSName)
	if err != nil {
		return nil, fmt.Errorf("rrdata: invalid SOA mname: %w", err)
	}
	hostmaster, err := EncodeDomainName(v.Hostmaster)
	if err != nil {
		return nil, fmt.Errorf("rrdata: invalid SOA rname: %w", err)
	}

	u32 := make([]byte, 20)
	binary.BigEndian.PutUint32(u32[0:], v.Serial)
	binary.BigEndian.PutUint32(u32[4:], v.Refresh)
	binary.BigEndian.PutUint32(u32[8:], v.Retry)
	binary.BigEndian.PutUint32(u32[12:], v.Expire)
	binary.BigEndian.PutUint32(u32[16:], v.MinTTL)

	encoded := make([]byte, 0, len(nsname)+len(hostmaster)+len(u32))
	encoded = append(encoded, nsname...)
	encoded = append(encoded, hostmaster...)
	encoded = append(encoded, u32...)
	return encoded, nil
}
