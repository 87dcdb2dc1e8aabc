package rrdata

import (
	"github.com/dnsforward/resolver/internal/dns/domain"
)

// DecodeNS reads an NS record's RDATA, resolving any compression pointer
// that reaches back into the enclosing message.
func DecodeNS(msg []byte, rdataOffset int) (domain.NameValue, error) {
	name, _, err := DecodeDomainName(msg, rdataOffset)
	if err != nil {
		return "", err
	}
	return domain.NameValue(name), nil
}

// EncodeNS renders an NS record's nameserver name into wire format.
func EncodeNS(v domain.NameValue) ([]byte, error) {
	return EncodeDomainName(string(v))
}
