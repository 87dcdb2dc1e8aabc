// Package wire provides encoding and decoding of DNS messages for UDP
// and DoH transport. It handles the DNS wire format as specified in
// RFC 1035, including name compression on decode.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/dnsforward/resolver/internal/dns/common/log"
	"github.com/dnsforward/resolver/internal/dns/common/rrdata"
	"github.com/dnsforward/resolver/internal/dns/domain"
	"github.com/dnsforward/resolver/internal/dns/services/resolver"
)

// udpCodec implements Codec for standard DNS messages. The same wire
// format serves both UDP and DoH transports, so this codec is shared
// by both; only the name reflects its original, narrower home.
type udpCodec struct {
	logger log.Logger
}

// NewUDPCodec creates and returns a new instance of udpCodec using the
// provided logger. The logger is used for logging within the codec.
func NewUDPCodec(logger log.Logger) *udpCodec {
	return &udpCodec{
		logger: logger,
	}
}

// EncodeQuery serializes a Question into a binary format suitable for
// sending via UDP or DoH.
func (c *udpCodec) EncodeQuery(query domain.Question) ([]byte, error) {
	var buf bytes.Buffer

	_ = binary.Write(&buf, binary.BigEndian, query.ID)       // ID
	_ = binary.Write(&buf, binary.BigEndian, uint16(0x0100)) // Flags: standard query, RD=1
	_ = binary.Write(&buf, binary.BigEndian, uint16(1))      // QDCOUNT
	_ = binary.Write(&buf, binary.BigEndian, uint16(0))      // ANCOUNT
	_ = binary.Write(&buf, binary.BigEndian, uint16(0))      // NSCOUNT
	_ = binary.Write(&buf, binary.BigEndian, uint16(0))      // ARCOUNT

	name, err := rrdata.EncodeDomainNameCompressed(query.Name, buf.Len(), make(map[string]int))
	if err != nil {
		return nil, fmt.Errorf("wire: invalid query name: %w", err)
	}
	buf.Write(name)
	_ = binary.Write(&buf, binary.BigEndian, uint16(query.Type))
	_ = binary.Write(&buf, binary.BigEndian, uint16(query.Class))

	c.logger.Debug(map[string]any{
		"step": "query_encoded",
		"id":   query.ID,
		"name": query.Name,
		"type": query.Type.String(),
	}, "encoded DNS query")

	return buf.Bytes(), nil
}

// DecodeResponse parses a raw DNS response into a DNSResponse,
// validating the response ID and decoding every resource record's
// RDATA through the C4 typed record parsers.
func (c *udpCodec) DecodeResponse(data []byte, expectedID uint16, now time.Time) (domain.DNSResponse, error) {
	if len(data) < 12 {
		return domain.DNSResponse{}, errors.New("wire: response too short")
	}
	id := binary.BigEndian.Uint16(data[0:2])
	if id != expectedID {
		return domain.DNSResponse{}, fmt.Errorf("wire: ID mismatch: expected %d, got %d", expectedID, id)
	}

	flags := binary.BigEndian.Uint16(data[2:4])
	rcode := domain.RCode(uint8(flags & 0x000F))
	truncated := flags&0x0200 != 0
	authData := flags&0x0020 != 0

	qdCount := binary.BigEndian.Uint16(data[4:6])
	anCount := binary.BigEndian.Uint16(data[6:8])
	nsCount := binary.BigEndian.Uint16(data[8:10])
	arCount := binary.BigEndian.Uint16(data[10:12])

	offset := 12
	for i := 0; i < int(qdCount); i++ {
		_, next, err := rrdata.DecodeDomainName(data, offset)
		if err != nil {
			return domain.DNSResponse{}, fmt.Errorf("wire: truncated question name: %w", err)
		}
		offset = next + 4 // QTYPE + QCLASS
	}

	answers, offset, err := c.parseRecordSection(data, offset, int(anCount), now)
	if err != nil {
		return domain.DNSResponse{}, fmt.Errorf("wire: failed to parse answer section: %w", err)
	}
	authority, offset, err := c.parseRecordSection(data, offset, int(nsCount), now)
	if err != nil {
		return domain.DNSResponse{}, fmt.Errorf("wire: failed to parse authority section: %w", err)
	}
	additional, _, err := c.parseRecordSection(data, offset, int(arCount), now)
	if err != nil {
		return domain.DNSResponse{}, fmt.Errorf("wire: failed to parse additional section: %w", err)
	}

	c.logger.Debug(map[string]any{
		"step":    "response_decoded",
		"id":      id,
		"rcode":   rcode.String(),
		"answers": len(answers),
	}, "decoded DNS response")

	return domain.DNSResponse{
		ID:                id,
		RCode:             rcode,
		Truncated:         truncated,
		AuthenticatedData: authData,
		Answers:           answers,
		Authority:         authority,
		Additional:        additional,
	}, nil
}

func (c *udpCodec) parseRecordSection(data []byte, offset, count int, now time.Time) ([]domain.ResourceRecord, int, error) {
	records := make([]domain.ResourceRecord, 0, count)
	for i := 0; i < count; i++ {
		rr, next, err := c.parseResourceRecord(data, offset, now)
		if err != nil {
			return nil, 0, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rr)
		offset = next
	}
	return records, offset, nil
}

// parseResourceRecord extracts a single resource record from DNS
// response data, decoding its RDATA through the C4 typed parsers.
func (c *udpCodec) parseResourceRecord(data []byte, offset int, now time.Time) (domain.ResourceRecord, int, error) {
	name, next, err := rrdata.DecodeDomainName(data, offset)
	if err != nil {
		return domain.ResourceRecord{}, 0, fmt.Errorf("failed to decode record name: %w", err)
	}
	offset = next

	if offset+10 > len(data) {
		return domain.ResourceRecord{}, 0, errors.New("truncated record section after name")
	}

	typ := binary.BigEndian.Uint16(data[offset : offset+2])
	class := binary.BigEndian.Uint16(data[offset+2 : offset+4])
	ttl := binary.BigEndian.Uint32(data[offset+4 : offset+8])
	rdLen := binary.BigEndian.Uint16(data[offset+8 : offset+10])
	offset += 10

	if offset+int(rdLen) > len(data) {
		return domain.ResourceRecord{}, 0, errors.New("truncated rdata")
	}
	rdata := make([]byte, rdLen)
	copy(rdata, data[offset:offset+int(rdLen)])

	rrtype := domain.RRType(typ)
	rrclass := domain.RRClass(class)

	text := ""
	if value, decErr := rrdata.Decode(rrtype, data, offset, int(rdLen)); decErr == nil {
		text = formatRecordValue(value)
	} else {
		c.logger.Warn(map[string]any{
			"name":  name,
			"type":  rrtype.String(),
			"error": decErr.Error(),
		}, "failed to decode RDATA into a typed value; caching raw bytes only")
	}
	offset += int(rdLen)

	rr, err := domain.NewCachedResourceRecord(name, rrtype, rrclass, ttl, rdata, text, now)
	if err != nil {
		return domain.ResourceRecord{}, 0, fmt.Errorf("invalid resource record: %w", err)
	}

	return rr, offset, nil
}

// formatRecordValue renders a typed RecordValue into the human-readable
// Text field carried alongside a ResourceRecord's wire Data.
func formatRecordValue(v domain.RecordValue) string {
	switch val := v.(type) {
	case domain.TXTValue:
		return fmt.Sprintf("%q", []string(val))
	case domain.CAAValue:
		return fmt.Sprintf("%d %s %q", boolToFlag(val.Critical), val.Tag, val.Value)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func boolToFlag(critical bool) int {
	if critical {
		return 128
	}
	return 0
}

var _ Codec = &udpCodec{}
var _ resolver.Codec = &udpCodec{}
