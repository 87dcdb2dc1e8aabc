package rrdata

import (
	"fmt"

	"github.com/dnsforward/resolver/internal/dns/domain"
)

// Decode interprets the RDATA of a resource record according to its
// type. msg is the full DNS message and rdataOffset/rdataLength locate
// the record's RDATA within it; passing the full message (rather than
// just the RDATA slice) lets record types whose RDATA embeds a domain
// name (NS, CNAME, PTR, MX, SRV, SOA) resolve compression pointers that
// reach back into earlier parts of the message.
func Decode(rrType domain.RRType, msg []byte, rdataOffset, rdataLength int) (domain.RecordValue, error) {
	if rdataOffset < 0 || rdataLength < 0 || rdataOffset+rdataLength > len(msg) {
		return nil, fmt.Errorf("rrdata: RDATA bounds [%d:%d] out of range for message of length %d", rdataOffset, rdataOffset+rdataLength, len(msg))
	}
	rdata := msg[rdataOffset : rdataOffset+rdataLength]

	switch rrType {
	case domain.RRTypeA:
		return DecodeA(rdata)
	case domain.RRTypeNS:
		return DecodeNS(msg, rdataOffset)
	case domain.RRTypeCNAME:
		return DecodeCNAME(msg, rdataOffset)
	case domain.RRTypeSOA:
		return DecodeSOA(msg, rdataOffset, rdataLength)
	case domain.RRTypePTR:
		return DecodePTR(msg, rdataOffset)
	case domain.RRTypeMX:
		return DecodeMX(msg, rdataOffset, rdataLength)
	case domain.RRTypeTXT:
		return DecodeTXT(rdata)
	case domain.RRTypeAAAA:
		return DecodeAAAA(rdata)
	case domain.RRTypeSRV:
		return DecodeSRV(msg, rdataOffset, rdataLength)
	case domain.RRTypeCAA:
		return DecodeCAA(rdata)
	default:
		return nil, fmt.Errorf("rrdata: decoding not implemented for %s", rrType)
	}
}
