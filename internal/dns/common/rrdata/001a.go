package rrdata

import (
	"fmt"
	"net"

	"github.com/dnsforward/resolver/internal/dns/domain"
)

// DecodeA interprets a 4-byte A record RDATA as a dotted-quad address.
func DecodeA(rdata []byte) (domain.AValue, error) {
	if len(rdata) != 4 {
		return "", fmt.Errorf("rrdata: invalid A record length: %d", len(rdata))
	}
	return domain.AValue(fmt.Sprintf("%d.%d.%d.%d", rdata[0], rdata[1], rdata[2], rdata[3])), nil
}

// EncodeA renders an AValue back into its 4-byte wire form.
func EncodeA(v domain.AValue) ([]byte, error) {
	ip := net.ParseIP(string(v))
	if ip == nil || !isIPv4(ip) {
		return nil, fmt.Errorf("rrdata: invalid A record address: %s", v)
	}
	return ip.To4(), nil
}
