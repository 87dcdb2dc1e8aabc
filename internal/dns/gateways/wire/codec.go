package wire

import (
	"time"

	"github.com/dnsforward/resolver/internal/dns/domain"
)

// Codec builds outgoing queries and decodes incoming responses on the
// wire. This library only ever acts as a DNS client: there is no
// authoritative query-decode or response-encode path, since this repo
// neither serves zones nor answers queries.
type Codec interface {
	EncodeQuery(query domain.Question) ([]byte, error)
	DecodeResponse(data []byte, expectedID uint16, now time.Time) (domain.DNSResponse, error)
}
