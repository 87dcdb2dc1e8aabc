package rrdata

import (
	"fmt"

	"github.com/dnsforward/resolver/internal/dns/domain"
)

// Encode renders a typed record value into its wire-format RDATA
// according to its type. The value's concrete type must match the one
// Decode would have produced for rrType, or a type-assertion error is
// returned.
func Encode(rrType domain.RRType, value domain.RecordValue) ([]byte, error) {
	switch rrType {
	case domain.RRTypeA:
		v, ok := value.(domain.AValue)
		if !ok {
			return nil, typeMismatch(rrType, value)
		}
		return EncodeA(v)
	case domain.RRTypeNS:
		v, ok := value.(domain.NameValue)
		if !ok {
			return nil, typeMismatch(rrType, value)
		}
		return EncodeNS(v)
	case domain.RRTypeCNAME:
		v, ok := value.(domain.NameValue)
		if !ok {
			return nil, typeMismatch(rrType, value)
		}
		return EncodeCNAME(v)
	case domain.RRTypeSOA:
		v, ok := value.(domain.SOAValue)
		if !ok {
			return nil, typeMismatch(rrType, value)
		}
		return EncodeSOA(v)
	case domain.RRTypePTR:
		v, ok := value.(domain.NameValue)
		if !ok {
			return nil, typeMismatch(rrType, value)
		}
		return EncodePTR(v)
	case domain.RRTypeMX:
		v, ok := value.(domain.MXValue)
		if !ok {
			return nil, typeMismatch(rrType, value)
		}
		return EncodeMX(v)
	case domain.RRTypeTXT:
		v, ok := value.(domain.TXTValue)
		if !ok {
			return nil, typeMismatch(rrType, value)
		}
		return EncodeTXT(v)
	case domain.RRTypeAAAA:
		v, ok := value.(domain.AAAAValue)
		if !ok {
			return nil, typeMismatch(rrType, value)
		}
		return EncodeAAAA(v)
	case domain.RRTypeSRV:
		v, ok := value.(domain.SRVValue)
		if !ok {
			return nil, typeMismatch(rrType, value)
		}
		return EncodeSRV(v)
	case domain.RRTypeCAA:
		v, ok := value.(domain.CAAValue)
		if !ok {
			return nil, typeMismatch(rrType, value)
		}
		return EncodeCAA(v)
	default:
		return nil, fmt.Errorf("rrdata: encoding not implemented for %s", rrType)
	}
}

func typeMismatch(rrType domain.RRType, value domain.RecordValue) error {
	return fmt.Errorf("rrdata: value of type %T does not match record type %s", value, rrType)
}
