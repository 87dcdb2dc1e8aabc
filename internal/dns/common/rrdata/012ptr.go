package rrdata

import (
	"github.com/dnsforward/resolver/internal/dns/domain"
)

// DecodePTR reads a PTR record's RDATA, resolving any compression pointer
// that reaches back into the enclosing message.
func DecodePTR(msg []byte, rdataOffset int) (domain.NameValue, error) {
	name, _, err := DecodeDomainName(msg, rdataOffset)
	if err != nil {
		return "", err
	}
	return domain.NameValue(name), nil
}

// EncodePTR renders a PTR record's target name into wire format.
func EncodePTR(v domain.NameValue) ([]byte, error) {
	return EncodeDomainName(string(v))
}
