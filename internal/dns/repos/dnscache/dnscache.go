package dnscache

import (
	"errors"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dnsforward/resolver/internal/dns/domain"
	"github.com/dnsforward/resolver/internal/dns/services/resolver"
)

var (
	ErrMultipleKeys = errors.New("multiple records with different keys provided")
)

// Options configures a dnsCache: all fields have a recognised default,
// see DefaultOptions.
type Options struct {
	// Enabled gates both Get and Set; a disabled cache always misses and
	// never stores.
	Enabled bool
	// MaxSize bounds the number of distinct (name, type) entries held.
	MaxSize int
	// RespectTtl, when true, clamps a stored record's ttl to
	// [MinTtl, MaxTtl]; when false every record is stored with MaxTtl
	// regardless of its response ttl.
	RespectTtl bool
	// MinTtl and MaxTtl bound the clamp, in seconds.
	MinTtl uint32
	MaxTtl uint32
}

// DefaultOptions returns the defaults: enabled, 1000
// entries, ttl respected and clamped to [60s, 86400s].
func DefaultOptions() Options {
	return Options{
		Enabled:    true,
		MaxSize:    1000,
		RespectTtl: true,
		MinTtl:     60,
		MaxTtl:     86400,
	}
}

// Stats reports cumulative cache activity alongside its current size.
type Stats = resolver.CacheStats

// dnsCache is an in-memory TTL-aware cache using an LRU-by-last-access
// strategy to store DNS resource records. Each cache key can store
// multiple resource records, as DNS queries often return multiple
// records for the same (name, type).
type dnsCache struct {
	mu   sync.Mutex
	lru  *lru.Cache[string, []domain.ResourceRecord]
	opts Options

	hits      uint64
	misses    uint64
	evictions uint64
}

// New returns a dnsCache of the given size with the remaining options at
// their defaults. Kept for callers that only care about
// sizing; prefer NewWithOptions to control ttl clamping or disable the
// cache outright.
func New(size int) (*dnsCache, error) {
	opts := DefaultOptions()
	opts.MaxSize = size
	return NewWithOptions(opts)
}

// NewWithOptions constructs a dnsCache from an explicit Options value.
func NewWithOptions(opts Options) (*dnsCache, error) {
	cache, err := lru.New[string, []domain.ResourceRecord](opts.MaxSize)
	if err != nil {
		return nil, err
	}
	return &dnsCache{lru: cache, opts: opts}, nil
}

// clampTtl applies the configured RespectTtl/MinTtl/MaxTtl policy to a
// single record's ttl, returning a record with the clamped ttl baked
// into its expiry. Authoritative records (no expiry) pass through
// unchanged: clamping only applies to cached answers.
func (c *dnsCache) clampTtl(rr domain.ResourceRecord) domain.ResourceRecord {
	if rr.IsAuthoritative() {
		return rr
	}
	var ttl uint32
	if c.opts.RespectTtl {
		ttl = rr.TTL()
		if ttl < c.opts.MinTtl {
			ttl = c.opts.MinTtl
		}
		if ttl > c.opts.MaxTtl {
			ttl = c.opts.MaxTtl
		}
	} else {
		ttl = c.opts.MaxTtl
	}
	clamped, err := domain.NewCachedResourceRecord(rr.Name, rr.Type, rr.Class, ttl, rr.Data, rr.Text, time.Now())
	if err != nil {
		// Clamping never changes name/type/class/data/text validity, only
		// ttl, so this should be unreachable; fall back to the original
		// record rather than drop it.
		return rr
	}
	return clamped
}

// Set replaces the existing records for the given key with the provided
// records, clamping each ttl per the configured policy. All records
// passed must share the same cache key. A disabled cache silently
// accepts the call without storing anything.
func (c *dnsCache) Set(records []domain.ResourceRecord) error {
	if len(records) == 0 {
		return nil
	}
	key := records[0].CacheKey()
	for _, record := range records {
		if record.CacheKey() != key {
			return ErrMultipleKeys
		}
	}
	if !c.opts.Enabled {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	clamped := make([]domain.ResourceRecord, len(records))
	for i, rr := range records {
		clamped[i] = c.clampTtl(rr)
	}
	if evicted := c.lru.Add(key, clamped); evicted {
		c.evictions++
	}
	return nil
}

// Get retrieves resource records from the cache if present and not
// expired, checked against a monotonic clock. If any records are
// expired, the entry is removed and treated as a miss. A disabled
// cache always misses.
func (c *dnsCache) Get(key string) ([]domain.ResourceRecord, bool) {
	if !c.opts.Enabled {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if records, found := c.lru.Get(key); found {
		var validRecords []domain.ResourceRecord
		for _, record := range records {
			if !record.IsExpired() {
				validRecords = append(validRecords, record)
			}
		}

		if len(validRecords) > 0 {
			c.lru.Add(key, validRecords)
			c.hits++
			return validRecords, true
		}
		c.lru.Remove(key)
	}
	c.misses++
	return nil, false
}

// Delete removes the entry for the given key from the cache.
func (c *dnsCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(key)
}

// Len returns the number of cache entries (keys) currently stored.
// Note: each entry may contain multiple resource records.
func (c *dnsCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Keys returns a slice of all current cache keys.
func (c *dnsCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Keys()
}

// Stats returns the cumulative hit/miss/eviction counters alongside the
// current size.
func (c *dnsCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      c.lru.Len(),
	}
}

// Clean sweeps every entry and removes those with no remaining
// unexpired records, returning the count of keys removed.
func (c *dnsCache) Clean() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, key := range c.lru.Keys() {
		records, found := c.lru.Peek(key)
		if !found {
			continue
		}
		allExpired := true
		for _, record := range records {
			if !record.IsExpired() {
				allExpired = false
				break
			}
		}
		if allExpired {
			c.lru.Remove(key)
			removed++
		}
	}
	return removed
}

var _ resolver.Cache = (*dnsCache)(nil)
