package resolver

import (
	"context"
	"time"

	"github.com/dnsforward/resolver/internal/dns/domain"
)

// Codec builds outgoing queries and decodes incoming responses on the
// wire (C3). This resolver core never speaks to a socket directly; it
// only ever sees encoded bytes in and a decoded domain.DNSResponse out.
type Codec interface {
	EncodeQuery(query domain.Question) ([]byte, error)
	DecodeResponse(data []byte, expectedID uint16, now time.Time) (domain.DNSResponse, error)
}

// Transport dispatches one already-encoded query to one server and
// returns the raw response bytes (C5 UDP, C6 DoH). Retry, server
// selection, and decoding all live in the resolver core, one layer up.
type Transport interface {
	Query(ctx context.Context, server string, queryBytes []byte) ([]byte, error)
}

// ServerChain selects which upstream server a resolve attempt should
// use and tracks per-server health across the resolver's lifetime (C7).
type ServerChain interface {
	NextServer() string
	MarkFailed(addr string)
	ResetFailed()
	Healthy(addr string) bool
	Servers() []string
}

// Cache defines the interface for a DNS resource record cache: at most
// one entry per (name, type), LRU-by-last-access eviction, ttl
// clamping, and hit/miss/eviction counters.
//
// Methods:
//   - Set(records): Stores the records for their shared cache key, clamping ttl.
//   - Get(key): Retrieves resource records by key, returning the records and a boolean indicating existence.
//   - Delete(key): Removes a resource record from the cache by key.
//   - Len(): Returns the number of cache entries currently stored in the cache.
//   - Keys(): Returns a slice of all keys currently stored in the cache.
//   - Stats(): Returns cumulative hit/miss/eviction counters and current size.
//   - Clean(): Sweeps and removes expired entries, returning the count removed.
type Cache interface {
	Set(record []domain.ResourceRecord) error
	Get(key string) ([]domain.ResourceRecord, bool)
	Delete(key string)
	Len() int
	Keys() []string
	Stats() CacheStats
	Clean() int
}

// CacheStats mirrors dnscache.Stats without importing the repos package
// from the services layer (which would invert the dependency direction).
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Size      int
}
