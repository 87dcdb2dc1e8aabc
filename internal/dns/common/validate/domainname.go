// Package validate checks DNS domain names for RFC 1035 label syntax and
// normalises them to the resolver's canonical form.
package validate

import (
	"fmt"
	"strings"

	"github.com/dnsforward/resolver/internal/dns/common/utils"
)

const (
	maxLabelLength = 63
	maxWireLength  = 255
	maxTextLength  = 253
)

// DomainName validates name against RFC 1035 label syntax: 1..63-byte
// labels, ASCII alphanumeric plus hyphen, no leading/trailing hyphen, a
// total textual length of at most 253 bytes, and a total wire length
// (each label preceded by its length byte, plus a terminating zero) of
// at most 255 bytes. An empty name and a bare "." (root) are rejected:
// this resolver never queries the root zone.
func DomainName(name string) error {
	canon := utils.CanonicalDNSName(name)
	if canon == "" {
		return fmt.Errorf("validate: domain name must not be empty")
	}
	if len(canon) > maxTextLength {
		return fmt.Errorf("validate: domain name exceeds %d bytes: %q", maxTextLength, name)
	}

	labels := strings.Split(canon, ".")
	wireLength := 1 // terminating zero byte
	for _, label := range labels {
		if len(label) == 0 {
			return fmt.Errorf("validate: domain name contains an empty label: %q", name)
		}
		if len(label) > maxLabelLength {
			return fmt.Errorf("validate: label %q exceeds %d bytes", label, maxLabelLength)
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return fmt.Errorf("validate: label %q must not start or end with a hyphen", label)
		}
		for _, r := range label {
			if !isLabelChar(r) {
				return fmt.Errorf("validate: label %q contains an invalid character %q", label, r)
			}
		}
		wireLength += len(label) + 1
	}
	if wireLength > maxWireLength {
		return fmt.Errorf("validate: domain name exceeds wire length of %d bytes: %q", maxWireLength, name)
	}
	return nil
}

func isLabelChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '-':
		return true
	default:
		return false
	}
}

// Normalize validates name and returns its canonical form: lowercase, no
// surrounding whitespace, no trailing dot.
func Normalize(name string) (string, error) {
	if err := DomainName(name); err != nil {
		return "", err
	}
	return utils.CanonicalDNSName(name), nil
}
