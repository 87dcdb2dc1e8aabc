package rrdata

import (
	"fmt"
	"net"
	"strings"

	"github.com/dnsforward/resolver/internal/dns/common/utils"
)

const maxPointerHops = 128

// EncodeDomainName encodes a domain name into wire format: length-prefixed
// labels terminated by a zero byte. Used by every record type whose RDATA
// embeds a name (NS, CNAME, PTR, MX, SRV, SOA).
func EncodeDomainName(name string) ([]byte, error) {
	name = utils.CanonicalDNSName(name)
	labels := strings.Split(name, ".")
	var encoded []byte
	for _, label := range labels {
		if len(label) == 0 {
			continue
		}
		if len(label) > 63 {
			return nil, fmt.Errorf("label too long: %s", label)
		}
		encoded = append(encoded, byte(len(label)))
		encoded = append(encoded, label...)
	}
	encoded = append(encoded, 0)
	return encoded, nil
}

// maxCompressionOffset is the largest message offset a compression
// pointer can address: 14 bits (RFC 1035 §4.1.4).
const maxCompressionOffset = 0x3FFF

// EncodeDomainNameCompressed encodes name into wire format the same way
// EncodeDomainName does, except it consults compressionTable first: if
// name or one of its suffixes ("www.example.com", "example.com", "com",
// ...) was already written earlier in the same message, it emits a
// 0xC000|offset pointer to the longest such suffix instead of repeating
// those labels. msgOffset is name's position in the owning message (the
// number of bytes already written before this call), used both to
// register name's own suffixes for later callers and to compute the
// pointer this call emits. Every suffix registered is capped to
// maxCompressionOffset, since a pointer cannot address further than
// that. Pass a nil compressionTable to always write name out in full.
func EncodeDomainNameCompressed(name string, msgOffset int, compressionTable map[string]int) ([]byte, error) {
	name = utils.CanonicalDNSName(name)
	if name == "" {
		return []byte{0}, nil
	}

	labels := strings.Split(name, ".")
	var encoded []byte
	pos := msgOffset

	for i, label := range labels {
		if len(label) > 63 {
			return nil, fmt.Errorf("label too long: %s", label)
		}

		if compressionTable != nil {
			suffix := strings.Join(labels[i:], ".")
			if ptr, ok := compressionTable[suffix]; ok {
				encoded = append(encoded, byte(0xC0|(ptr>>8)), byte(ptr&0xFF))
				return encoded, nil
			}
			if pos <= maxCompressionOffset {
				compressionTable[suffix] = pos
			}
		}

		encoded = append(encoded, byte(len(label)))
		encoded = append(encoded, label...)
		pos += 1 + len(label)
	}
	encoded = append(encoded, 0)
	return encoded, nil
}

// DecodeDomainName reads a domain name starting at offset within buf,
// following compression pointers (top two bits of a length byte set).
// It returns the decoded name and the offset just past the first
// pointer encountered, or past the terminating zero if there was none —
// the classic DNS compression rule so RDATA parsing can continue
// correctly after an embedded name. A visited-offset set guards against
// pointer loops.
func DecodeDomainName(buf []byte, offset int) (string, int, error) {
	var labels []string
	visited := make(map[int]bool)
	firstJump := -1
	pos := offset

	for {
		if pos >= len(buf) {
			return "", 0, fmt.Errorf("rrdata: name decode read past end of buffer at offset %d", pos)
		}
		length := int(buf[pos])

		switch {
		case length == 0:
			pos++
			if firstJump != -1 {
				return canonicalJoin(labels), firstJump, nil
			}
			return canonicalJoin(labels), pos, nil

		case length&0xC0 == 0xC0:
			if pos+1 >= len(buf) {
				return "", 0, fmt.Errorf("rrdata: truncated compression pointer at offset %d", pos)
			}
			pointer := (int(length&0x3F) << 8) | int(buf[pos+1])
			if firstJump == -1 {
				firstJump = pos + 2
			}
			if visited[pointer] {
				return "", 0, fmt.Errorf("rrdata: compression pointer loop detected at offset %d", pointer)
			}
			if len(visited) >= maxPointerHops {
				return "", 0, fmt.Errorf("rrdata: too many compression pointer hops")
			}
			visited[pointer] = true
			pos = pointer

		case length&0xC0 != 0:
			return "", 0, fmt.Errorf("rrdata: reserved label length bits at offset %d", pos)

		default:
			start := pos + 1
			end := start + length
			if end > len(buf) {
				return "", 0, fmt.Errorf("rrdata: label length %d overruns buffer at offset %d", length, pos)
			}
			labels = append(labels, string(buf[start:end]))
			pos = end
		}
	}
}

func canonicalJoin(labels []string) string {
	return utils.CanonicalDNSName(strings.Join(labels, "."))
}

// isIPv4 checks whether the provided net.IP address is an IPv4 address.
func isIPv4(ip net.IP) bool {
	return ip != nil && ip.To4() != nil
}

// isIPv6 checks whether the provided net.IP is a valid IPv6 address that
// is not also expressible as IPv4.
func isIPv6(ip net.IP) bool {
	return ip != nil && ip.To16() != nil && ip.To4() == nil
}
