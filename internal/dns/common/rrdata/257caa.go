package rrdata

import (
	"fmt"

	"github.com/dnsforward/resolver/internal/dns/domain"
)

const caaCriticalFlag = 0x80

// DecodeCAA reads a CAA record's RDATA (RFC 6844): a 1-byte flags field,
// a 1-byte tag length, the tag itself, and the remaining bytes as the
// value. The tag is length-prefixed, not NUL-terminated; a tag byte
// value here was previously misread as a terminator, truncating any
// tag containing a zero byte and misaligning the value that followed.
func DecodeCAA(rdata []byte) (domain.CAAValue, error) {
	if len(rdata) < 2 {
		return domain.CAAValue{}, fmt.Errorf("rrdata: invalid CAA record length: %d", len(rdata))
	}
	flags := rdata[0]
	tagLen := int(rdata[1])
	if 2+tagLen > len(rdata) {
		return domain.CAAValue{}, fmt.Errorf("rrdata: CAA tag length %d overruns RDATA", tagLen)
	}
	tag := string(rdata[2 : 2+tagLen])
	value := rdata[2+tagLen:]

	return domain.CAAValue{
		Critical: flags&caaCriticalFlag != 0,
		Tag:      tag,
		Value:    append([]byte(nil), value...),
	}, nil
}

// EncodeCAA renders a CAA record's fields into wire format.
func EncodeCAA(v domain.CAAValue) ([]byte, error) {
	if len(v.Tag) > 255 {
		return nil, fmt.Errorf("rrdata: CAA tag too long")
	}
	if len(v.Value) > 255 {
		return nil, fmt.Errorf("rrdata: CAA value too long")
	}
	var flags byte
	if v.Critical {
		flags = caaCriticalFlag
	}
	encoded := []byte{flags, byte(len(v.Tag))}
	encoded = append(encoded, v.Tag...)
	encoded = append(encoded, v.Value...)
	return encoded, nil
}
