package resolver

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/dnsforward/resolver/internal/dns/common/backoff"
	"github.com/dnsforward/resolver/internal/dns/common/clock"
	"github.com/dnsforward/resolver/internal/dns/common/log"
	"github.com/dnsforward/resolver/internal/dns/config"
	"github.com/dnsforward/resolver/internal/dns/domain"
	"github.com/dnsforward/resolver/internal/dns/gateways/chain"
	"github.com/dnsforward/resolver/internal/dns/gateways/transport"
	"github.com/dnsforward/resolver/internal/dns/gateways/wire"
	"github.com/dnsforward/resolver/internal/dns/repos/dnscache"
	core "github.com/dnsforward/resolver/internal/dns/services/resolver"
)

// Config is the full set of options a Resolver accepts. Use
// DefaultConfig as a starting point and override only the fields that
// matter to the caller.
type Config = config.ResolverConfig

// CacheConfig and DNSSECConfig are Config's nested option groups.
type CacheConfig = config.CacheConfig
type DNSSECConfig = config.DNSSECConfig

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return config.DefaultResolverConfig()
}

// RRType, RRClass, and RCode are re-exported for callers building
// Resolve calls and inspecting results without an internal import.
type RRType = domain.RRType
type RCode = domain.RCode

// Re-export every RRType constant this library resolves answers for.
const (
	RRTypeA     = domain.RRTypeA
	RRTypeAAAA  = domain.RRTypeAAAA
	RRTypeNS    = domain.RRTypeNS
	RRTypeCNAME = domain.RRTypeCNAME
	RRTypeSOA   = domain.RRTypeSOA
	RRTypePTR   = domain.RRTypePTR
	RRTypeMX    = domain.RRTypeMX
	RRTypeTXT   = domain.RRTypeTXT
	RRTypeSRV   = domain.RRTypeSRV
	RRTypeCAA   = domain.RRTypeCAA
)

// ParsedRecord is one typed record parsed from a response.
type ParsedRecord = domain.ParsedRecord

// RecordValue and its concrete variants let callers type-switch on a
// ParsedRecord's Value without an internal import.
type RecordValue = domain.RecordValue
type AValue = domain.AValue
type AAAAValue = domain.AAAAValue
type NameValue = domain.NameValue
type MXValue = domain.MXValue
type SRVValue = domain.SRVValue
type SOAValue = domain.SOAValue
type TXTValue = domain.TXTValue
type CAAValue = domain.CAAValue

// Observer, Event, EventName, and the event payload structs are
// re-exported so callers can register lifecycle observers without an
// internal import.
type Observer = domain.Observer
type ObserverFunc = domain.ObserverFunc
type Event = domain.Event
type EventName = domain.EventName

const (
	EventQuery           = domain.EventQuery
	EventResponse        = domain.EventResponse
	EventParsedResponse  = domain.EventParsedResponse
	EventError           = domain.EventError
	EventRetry           = domain.EventRetry
	EventCacheHit        = domain.EventCacheHit
	EventCacheMiss       = domain.EventCacheMiss
	EventDNSSECValidated = domain.EventDNSSECValidated
)

type QueryEvent = domain.QueryEvent
type ResponseEvent = domain.ResponseEvent
type ParsedResponseEvent = domain.ParsedResponseEvent
type ErrorEvent = domain.ErrorEvent
type RetryEvent = domain.RetryEvent
type CacheHitEvent = domain.CacheHitEvent
type CacheMissEvent = domain.CacheMissEvent
type DNSSECValidatedEvent = domain.DNSSECValidatedEvent

// ResolveError is the error value every failed Resolve/Reverse call
// returns; callers can inspect Kind, Server, and RCode, or call
// Retriable() to decide whether to try again themselves.
type ResolveError = domain.ResolveError

// ResolveOptions are the per-call overrides a caller may set on Resolve.
type ResolveOptions = core.ResolveOptions

// Result is the outcome of a successful Resolve call.
type Result = core.Result

// Stats are the cumulative query counters GetStats reports, plus the
// derived AverageDuration.
type Stats struct {
	TotalQueries      uint64
	SuccessfulQueries uint64
	FailedQueries     uint64
	AverageDuration   time.Duration
}

// CacheStats are the cumulative cache counters GetCacheStats reports,
// plus the derived HitRate.
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Size    int
	HitRate float64
}

// Resolver is a client-side DNS resolver: it composes a wire codec, a
// UDP or DoH transport, a server chain, and an optional response cache
// behind the orchestration core, exposing a single public surface for
// resolving and reverse-resolving names.
type Resolver struct {
	core *core.Resolver
}

// New builds a Resolver from cfg. A nil cfg uses DefaultConfig()
// unmodified. cfg is merged onto the defaults and validated exactly as
// config.Load does, so a caller may supply a sparse override.
func New(cfg *Config, observer Observer) (*Resolver, error) {
	resolved, err := config.Load(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolver: invalid configuration: %w", err)
	}

	logger := log.GetLogger()

	codec := wire.NewUDPCodec(logger)

	dohOpts := transport.DoHOptions{}
	t, err := transport.NewTransport(transport.TransportType(resolved.Type), dohOpts, logger)
	if err != nil {
		return nil, fmt.Errorf("resolver: failed to build transport: %w", err)
	}

	servers := resolved.Servers
	if resolved.Type == "doh" && resolved.Server != "" {
		servers = []string{resolved.Server}
	}
	serverChain, err := chain.New(servers, chain.Strategy(resolved.RotationStrategy), rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		return nil, fmt.Errorf("resolver: failed to build server chain: %w", err)
	}

	cache, err := dnscache.NewWithOptions(dnscache.Options{
		Enabled:    resolved.Cache.Enabled,
		MaxSize:    resolved.Cache.MaxSize,
		RespectTtl: resolved.Cache.RespectTTL,
		MinTtl:     uint32(resolved.Cache.MinTTL),
		MaxTtl:     uint32(resolved.Cache.MaxTTL),
	})
	if err != nil {
		return nil, fmt.Errorf("resolver: failed to build cache: %w", err)
	}

	resolverCore, err := core.New(core.Options{
		Transport:    t,
		Codec:        codec,
		Chain:        serverChain,
		Cache:        cache,
		Clock:        clock.RealClock{},
		Logger:       logger,
		Observer:     observer,
		Timeout:      time.Duration(resolved.TimeoutMS) * time.Millisecond,
		Retries:      resolved.Retries,
		RetryDelay:   time.Duration(resolved.RetryDelayMS) * time.Millisecond,
		RetryBackoff: backoff.Strategy(resolved.RetryBackoff),
	})
	if err != nil {
		return nil, fmt.Errorf("resolver: failed to build resolver core: %w", err)
	}

	return &Resolver{core: resolverCore}, nil
}

// Resolve looks up rrtype records for name.
func (r *Resolver) Resolve(ctx context.Context, name string, rrtype RRType, opts ResolveOptions) (Result, error) {
	return r.core.Resolve(ctx, name, rrtype, opts)
}

// Reverse resolves ip's PTR name, returning the first target.
func (r *Resolver) Reverse(ctx context.Context, ip string) (string, error) {
	return r.core.Reverse(ctx, ip)
}

// ReverseAll resolves every PTR target for ip's reverse-DNS name.
func (r *Resolver) ReverseAll(ctx context.Context, ip string) ([]string, error) {
	return r.core.ReverseAll(ctx, ip)
}

// ClearCache removes every cached entry.
func (r *Resolver) ClearCache() {
	r.core.ClearCache()
}

// ClearCacheForName removes every cached entry for name, across all
// record types.
func (r *Resolver) ClearCacheForName(name string) {
	r.core.ClearCacheForName(name)
}

// ClearCacheForNameType removes the cached entry for name and rrtype.
func (r *Resolver) ClearCacheForNameType(name string, rrtype RRType) {
	r.core.ClearCacheForNameType(name, rrtype)
}

// GetCacheStats returns the response cache's cumulative counters with
// the derived hit rate.
func (r *Resolver) GetCacheStats() CacheStats {
	s := r.core.CacheStats()
	var hitRate float64
	if total := s.Hits + s.Misses; total > 0 {
		hitRate = float64(s.Hits) / float64(total)
	}
	return CacheStats{Hits: s.Hits, Misses: s.Misses, Size: s.Size, HitRate: hitRate}
}

// GetStats returns the cumulative query counters with the derived
// average duration.
func (r *Resolver) GetStats() Stats {
	s := r.core.Stats()
	var avg time.Duration
	if s.TotalQueries > 0 {
		avg = s.TotalDuration / time.Duration(s.TotalQueries)
	}
	return Stats{
		TotalQueries:      s.TotalQueries,
		SuccessfulQueries: s.SuccessfulQueries,
		FailedQueries:     s.FailedQueries,
		AverageDuration:   avg,
	}
}

// GetServers returns the currently configured upstream server addresses.
func (r *Resolver) GetServers() []string {
	return r.core.Servers()
}

// Destroy permanently disables the resolver. Calling it more than once
// is a no-op; every Resolve/Reverse call after Destroy returns an error.
func (r *Resolver) Destroy() {
	r.core.Destroy()
}
