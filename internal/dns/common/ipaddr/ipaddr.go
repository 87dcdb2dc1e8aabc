// Package ipaddr parses and formats IPv4/IPv6 addresses and converts
// them to their DNS reverse-zone names.
package ipaddr

import (
	"fmt"
	"net"
	"strings"
)

// IsIPv4 reports whether ip is not nil and has a valid 4-byte form.
func IsIPv4(ip net.IP) bool {
	return ip != nil && ip.To4() != nil
}

// IsIPv6 reports whether ip is not nil, has a valid 16-byte form, and is
// not also expressible as IPv4.
func IsIPv6(ip net.IP) bool {
	return ip != nil && ip.To16() != nil && ip.To4() == nil
}

// FormatIPv4 renders ip in dotted-quad form, e.g. "93.184.216.34".
func FormatIPv4(ip net.IP) (string, error) {
	v4 := ip.To4()
	if v4 == nil {
		return "", fmt.Errorf("ipaddr: not an IPv4 address: %v", ip)
	}
	return fmt.Sprintf("%d.%d.%d.%d", v4[0], v4[1], v4[2], v4[3]), nil
}

// CanonicalIPv6 renders ip in its RFC 5952 canonical compressed form:
// lowercase hex, the single longest run of two-or-more zero groups
// collapsed to "::" (leftmost run wins ties), and no "::" used for a
// single zero group.
func CanonicalIPv6(ip net.IP) (string, error) {
	v6 := ip.To16()
	if v6 == nil || ip.To4() != nil {
		return "", fmt.Errorf("ipaddr: not an IPv6 address: %v", ip)
	}

	var groups [8]uint16
	for i := 0; i < 8; i++ {
		groups[i] = uint16(v6[i*2])<<8 | uint16(v6[i*2+1])
	}

	start, length := longestZeroRun(groups)

	var b strings.Builder
	i := 0
	wroteCompress := false
	for i < 8 {
		if length >= 2 && i == start {
			b.WriteString("::")
			i += length
			wroteCompress = true
			continue
		}
		if b.Len() > 0 && !strings.HasSuffix(b.String(), ":") {
			b.WriteByte(':')
		}
		b.WriteString(fmt.Sprintf("%x", groups[i]))
		i++
	}
	out := b.String()
	if !wroteCompress {
		return out, nil
	}
	return out, nil
}

// longestZeroRun returns the start index and length of the longest run
// of consecutive zero groups, preferring the leftmost run on ties. It
// returns length 0 if no run of length >= 2 exists.
func longestZeroRun(groups [8]uint16) (start, length int) {
	bestStart, bestLen := -1, 0
	curStart, curLen := -1, 0
	for i := 0; i < 8; i++ {
		if groups[i] == 0 {
			if curStart == -1 {
				curStart = i
			}
			curLen++
			if curLen > bestLen {
				bestLen = curLen
				bestStart = curStart
			}
		} else {
			curStart, curLen = -1, 0
		}
	}
	if bestLen < 2 {
		return -1, 0
	}
	return bestStart, bestLen
}

// ReverseIPv4 converts an IPv4 address to its "in-addr.arpa" reverse
// name, e.g. "1.2.3.4" -> "4.3.2.1.in-addr.arpa".
func ReverseIPv4(ip net.IP) (string, error) {
	v4 := ip.To4()
	if v4 == nil {
		return "", fmt.Errorf("ipaddr: not an IPv4 address: %v", ip)
	}
	return fmt.Sprintf("%d.%d.%d.%d.in-addr.arpa", v4[3], v4[2], v4[1], v4[0]), nil
}

// ReverseIPv6 converts an IPv6 address to its "ip6.arpa" reverse name:
// 32 reversed, dot-separated hex nibbles followed by the suffix.
func ReverseIPv6(ip net.IP) (string, error) {
	v6 := ip.To16()
	if v6 == nil || ip.To4() != nil {
		return "", fmt.Errorf("ipaddr: not an IPv6 address: %v", ip)
	}
	nibbles := make([]string, 0, 32)
	hex := "0123456789abcdef"
	for i := len(v6) - 1; i >= 0; i-- {
		b := v6[i]
		nibbles = append(nibbles, string(hex[b&0x0f]), string(hex[b>>4]))
	}
	return strings.Join(nibbles, ".") + ".ip6.arpa", nil
}

// Reverse converts ip (v4 or v6) to its DNS reverse-zone name.
func Reverse(ip net.IP) (string, error) {
	if IsIPv4(ip) {
		return ReverseIPv4(ip)
	}
	if IsIPv6(ip) {
		return ReverseIPv6(ip)
	}
	return "", fmt.Errorf("ipaddr: unrecognised IP address: %v", ip)
}

// ParseIP parses s as an IPv4 or IPv6 address.
func ParseIP(s string) (net.IP, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return nil, fmt.Errorf("ipaddr: invalid IP address: %q", s)
	}
	return ip, nil
}
