package rrdata

import (
	"github.com/dnsforward/resolver/internal/dns/domain"
)

// DecodeCNAME reads a CNAME record's RDATA, resolving any compression
// pointer that reaches back into the enclosing message.
func DecodeCNAME(msg []byte, rdataOffset int) (domain.NameValue, error) {
	name, _, err := DecodeDomainName(msg, rdataOffset)
	if err != nil {
		return "", err
	}
	return domain.NameValue(name), nil
}

// EncodeCNAME renders a CNAME record's target name into wire format.
func EncodeCNAME(v domain.NameValue) ([]byte, error) {
	return EncodeDomainName(string(v))
}
