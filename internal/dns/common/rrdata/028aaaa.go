package rrdata

import (
	"fmt"
	"net"

	"github.com/dnsforward/resolver/internal/dns/common/ipaddr"
	"github.com/dnsforward/resolver/internal/dns/domain"
)

// DecodeAAAA interprets a 16-byte AAAA record RDATA, rendering it in
// RFC 5952 canonical form.
func DecodeAAAA(rdata []byte) (domain.AAAAValue, error) {
	if len(rdata) != 16 {
		return "", fmt.Errorf("rrdata: invalid AAAA record length: %d", len(rdata))
	}
	canonical, err := ipaddr.CanonicalIPv6(net.IP(rdata))
	if err != nil {
		return "", err
	}
	return domain.AAAAValue(canonical), nil
}

// EncodeAAAA renders an AAAAValue back into its 16-byte wire form.
func EncodeAAAA(v domain.AAAAValue) ([]byte, error) {
	ip := net.ParseIP(string(v))
	if ip == nil || !isIPv6(ip) {
		return nil, fmt.Errorf("rrdata: invalid AAAA record address: %s", v)
	}
	return ip.To16(), nil
}
