// Package resolver implements the resolver core (C9): the retry/backoff
// state machine that turns a (name, type) request into resolved
// records, dispatching through a server chain, a wire codec, and a
// transport, with an optional response cache and observer in between.
package resolver

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dnsforward/resolver/internal/dns/common/backoff"
	"github.com/dnsforward/resolver/internal/dns/common/clock"
	"github.com/dnsforward/resolver/internal/dns/common/ipaddr"
	"github.com/dnsforward/resolver/internal/dns/common/log"
	"github.com/dnsforward/resolver/internal/dns/common/rrdata"
	"github.com/dnsforward/resolver/internal/dns/common/utils"
	"github.com/dnsforward/resolver/internal/dns/common/validate"
	"github.com/dnsforward/resolver/internal/dns/domain"
)

// Options configures a Resolver core with its wired dependencies and
// the resolved (already-defaulted, already-validated) numeric options
// from config.ResolverConfig.
type Options struct {
	Transport    Transport
	Codec        Codec
	Chain        ServerChain
	Cache        Cache // nil disables caching entirely, distinct from a disabled dnscache.Options
	Clock        clock.Clock
	Logger       log.Logger
	Observer     domain.Observer // nil is valid: events are simply not delivered

	Timeout      time.Duration
	Retries      int
	RetryDelay   time.Duration
	RetryBackoff backoff.Strategy
}

// ResolveOptions are the per-query overrides a caller can set: bypassing
// the cache for one call, requesting SRV priority/weight sort, a
// per-call timeout override, and whether to surface AD-bit observation.
type ResolveOptions struct {
	NoCache bool
	SortSRV bool
	DNSSEC  bool
	Timeout time.Duration // zero uses the resolver's configured default
}

// Result is the outcome of a successful resolve call.
type Result struct {
	Records  []domain.ParsedRecord
	TTL      uint32
	Cached   bool
	Duration time.Duration
	Resolver string // "<cache>" for a cache hit, else the server that answered
}

// Stats are the cumulative query counters a Resolver tracks.
type Stats struct {
	TotalQueries      uint64
	SuccessfulQueries uint64
	FailedQueries     uint64
	TotalDuration     time.Duration
}

// Resolver is the C9 resolver core: validate, check cache, dispatch with
// retry/backoff across the server chain, parse, cache, and report.
type Resolver struct {
	transport Transport
	codec     Codec
	chain     ServerChain
	cache     Cache
	clock     clock.Clock
	logger    log.Logger
	observer  domain.Observer

	timeout      time.Duration
	retries      int
	retryDelay   time.Duration
	retryBackoff backoff.Strategy

	idCounter uint32
	destroyed uint32

	statsMu sync.Mutex
	stats   Stats
}

// New constructs a Resolver core from Options, defaulting Clock/Logger
// and validating the wired dependencies and backoff strategy.
func New(opts Options) (*Resolver, error) {
	if opts.Transport == nil {
		return nil, fmt.Errorf("resolver: transport is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("resolver: codec is required")
	}
	if opts.Chain == nil {
		return nil, fmt.Errorf("resolver: server chain is required")
	}
	rb := opts.RetryBackoff
	if rb == "" {
		rb = backoff.Exponential
	}
	if !rb.IsValid() {
		return nil, fmt.Errorf("resolver: invalid retry backoff strategy: %q", rb)
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	return &Resolver{
		transport:    opts.Transport,
		codec:        opts.Codec,
		chain:        opts.Chain,
		cache:        opts.Cache,
		clock:        clk,
		logger:       logger,
		observer:     opts.Observer,
		timeout:      opts.Timeout,
		retries:      opts.Retries,
		retryDelay:   opts.RetryDelay,
		retryBackoff: rb,
	}, nil
}

// Resolve implements resolve() operation: validate,
// normalise, check cache, then dispatch with retry/backoff across the
// server chain until an attempt succeeds or attempts are exhausted.
func (r *Resolver) Resolve(ctx context.Context, name string, rrtype domain.RRType, opts ResolveOptions) (Result, error) {
	if atomic.LoadUint32(&r.destroyed) != 0 {
		return Result{}, domain.NewResolveError(domain.ErrKindConfig, name, "", fmt.Errorf("resolver: destroyed"))
	}

	start := r.clock.Now()

	if err := validate.DomainName(name); err != nil {
		return Result{}, domain.NewResolveError(domain.ErrKindValidation, name, "", err)
	}
	normalized := utils.CanonicalDNSName(name)

	r.incrTotal()

	if r.cache != nil && !opts.NoCache {
		if records, ok := r.cache.Get(domain.GenerateCacheKey(normalized, rrtype)); ok {
			r.emit(domain.EventCacheHit, domain.CacheHitEvent{Name: normalized, Type: rrtype})
			duration := r.clock.Now().Sub(start)
			r.incrSuccess(duration)
			return Result{
				Records:  r.toParsedRecords(records),
				TTL:      minTTL(records),
				Cached:   true,
				Duration: duration,
				Resolver: "<cache>",
			}, nil
		}
		r.emit(domain.EventCacheMiss, domain.CacheMissEvent{Name: normalized, Type: rrtype})
	}

	var lastErr *domain.ResolveError

	for attempt := 0; attempt <= r.retries; attempt++ {
		server := r.chain.NextServer()
		id := uint16(atomic.AddUint32(&r.idCounter, 1))

		question, err := domain.NewQuestion(id, normalized, rrtype, domain.RRClassIN)
		if err != nil {
			return Result{}, domain.NewResolveError(domain.ErrKindValidation, normalized, server, err)
		}

		r.emit(domain.EventQuery, domain.QueryEvent{Name: normalized, Type: rrtype, Server: server, ID: id})

		queryBytes, err := r.codec.EncodeQuery(question)
		if err != nil {
			lastErr = domain.NewResolveError(domain.ErrKindParse, normalized, server, err)
			break
		}

		timeout := r.timeout
		if opts.Timeout > 0 {
			timeout = opts.Timeout
		}
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		respBytes, dispatchErr := r.transport.Query(attemptCtx, server, queryBytes)
		timedOut := attemptCtx.Err() == context.DeadlineExceeded
		cancel()

		if dispatchErr != nil {
			r.chain.MarkFailed(server)
			kind := domain.ErrKindTransport
			if timedOut {
				kind = domain.ErrKindTimeout
			}
			lastErr = domain.NewResolveError(kind, normalized, server, dispatchErr)
			if !r.retryAfter(ctx, normalized, attempt, server, dispatchErr) {
				break
			}
			continue
		}

		resp, decodeErr := r.codec.DecodeResponse(respBytes, id, r.clock.Now())
		if decodeErr != nil {
			lastErr = domain.NewResolveError(domain.ErrKindParse, normalized, server, decodeErr)
			break
		}

		r.emit(domain.EventResponse, domain.ResponseEvent{Name: normalized, Server: server, RCode: resp.RCode})
		if opts.DNSSEC && resp.AuthenticatedData {
			r.emit(domain.EventDNSSECValidated, domain.DNSSECValidatedEvent{Name: normalized, AuthenticatedData: true})
		}

		if resp.IsNXDomain() {
			lastErr = &domain.ResolveError{Kind: domain.ErrKindProtocol, Name: normalized, Server: server, RCode: resp.RCode, Err: fmt.Errorf("rcode %s", resp.RCode)}
			break
		}

		if resp.IsServFail() {
			r.chain.MarkFailed(server)
			lastErr = &domain.ResolveError{Kind: domain.ErrKindProtocol, Name: normalized, Server: server, RCode: resp.RCode, Err: fmt.Errorf("rcode %s", resp.RCode)}
			if !r.retryAfter(ctx, normalized, attempt, server, lastErr) {
				break
			}
			continue
		}

		records := filterByType(resp.Answers, rrtype)
		if rrtype == domain.RRTypeSRV && opts.SortSRV {
			records = sortSRV(records)
		}
		ttl := minTTL(records)

		if r.cache != nil && !opts.NoCache {
			if setErr := r.cache.Set(records); setErr != nil {
				r.logger.Warn(map[string]any{"name": normalized, "type": rrtype.String(), "error": setErr.Error()}, "failed to cache resolved records")
			}
		}

		duration := r.clock.Now().Sub(start)
		r.incrSuccess(duration)

		parsed := r.toParsedRecords(records)
		r.emit(domain.EventParsedResponse, domain.ParsedResponseEvent{
			Name: normalized, Type: rrtype, Records: parsed, TTL: ttl, Server: server, Duration: duration,
		})

		return Result{Records: parsed, TTL: ttl, Cached: false, Duration: duration, Resolver: server}, nil
	}

	r.incrFailed()
	if lastErr == nil {
		lastErr = domain.NewResolveError(domain.ErrKindTimeout, normalized, "", ctx.Err())
	}
	r.emit(domain.EventError, domain.ErrorEvent{Name: normalized, Type: rrtype, Err: lastErr})
	return Result{}, lastErr
}

// retryAfter emits a retry event and sleeps the configured backoff delay
// before the next attempt, returning false if attempts are exhausted or
// ctx is done before the delay elapses.
func (r *Resolver) retryAfter(ctx context.Context, name string, attempt int, server string, cause error) bool {
	if attempt == r.retries {
		return false
	}
	delay := backoff.Delay(r.retryBackoff, r.retryDelay, attempt)
	r.emit(domain.EventRetry, domain.RetryEvent{Name: name, Attempt: attempt + 1, Server: server, Cause: cause, Delay: delay})

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// Reverse resolves ip's reverse-DNS name, returning the first PTR
// target. ip is converted to its in-addr.arpa/ip6.arpa form before a
// normal PTR resolve.
func (r *Resolver) Reverse(ctx context.Context, ip string) (string, error) {
	names, err := r.ReverseAll(ctx, ip)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", domain.NewResolveError(domain.ErrKindProtocol, ip, "", fmt.Errorf("no PTR records returned"))
	}
	return names[0], nil
}

// ReverseAll resolves every PTR target for ip's reverse-DNS name.
func (r *Resolver) ReverseAll(ctx context.Context, ip string) ([]string, error) {
	parsed, err := ipaddr.ParseIP(ip)
	if err != nil {
		return nil, domain.NewResolveError(domain.ErrKindValidation, ip, "", err)
	}
	arpaName, err := ipaddr.Reverse(parsed)
	if err != nil {
		return nil, domain.NewResolveError(domain.ErrKindValidation, ip, "", err)
	}

	result, err := r.Resolve(ctx, arpaName, domain.RRTypePTR, ResolveOptions{})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(result.Records))
	for _, rec := range result.Records {
		if nv, ok := rec.Value.(domain.NameValue); ok {
			names = append(names, string(nv))
		}
	}
	return names, nil
}

// Destroy permanently disables the resolver: every subsequent Resolve
// call fails immediately with ErrKindConfig. Idempotent.
func (r *Resolver) Destroy() {
	atomic.StoreUint32(&r.destroyed, 1)
}

// Stats returns a snapshot of the cumulative query counters.
func (r *Resolver) Stats() Stats {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	return r.stats
}

// Servers returns the server chain's currently configured addresses.
func (r *Resolver) Servers() []string {
	return r.chain.Servers()
}

// CacheStats returns the response cache's cumulative counters, or a
// zero value if no cache is configured.
func (r *Resolver) CacheStats() CacheStats {
	if r.cache == nil {
		return CacheStats{}
	}
	return r.cache.Stats()
}

// ClearCache removes every entry from the response cache, a no-op if no
// cache is configured.
func (r *Resolver) ClearCache() {
	if r.cache == nil {
		return
	}
	for _, key := range r.cache.Keys() {
		r.cache.Delete(key)
	}
}

// ClearCacheForName removes every cached entry for name, across all
// record types, a no-op if no cache is configured.
func (r *Resolver) ClearCacheForName(name string) {
	if r.cache == nil {
		return
	}
	prefix := name + ":"
	for _, key := range r.cache.Keys() {
		if strings.HasPrefix(key, prefix) {
			r.cache.Delete(key)
		}
	}
}

// ClearCacheForNameType removes the cached entry for name and rrtype, a
// no-op if no cache is configured or no such entry exists.
func (r *Resolver) ClearCacheForNameType(name string, rrtype domain.RRType) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(domain.GenerateCacheKey(name, rrtype))
}

func (r *Resolver) incrTotal() {
	r.statsMu.Lock()
	r.stats.TotalQueries++
	r.statsMu.Unlock()
}

func (r *Resolver) incrSuccess(d time.Duration) {
	r.statsMu.Lock()
	r.stats.SuccessfulQueries++
	r.stats.TotalDuration += d
	r.statsMu.Unlock()
}

func (r *Resolver) incrFailed() {
	r.statsMu.Lock()
	r.stats.FailedQueries++
	r.statsMu.Unlock()
}

func (r *Resolver) emit(name domain.EventName, payload any) {
	if r.observer == nil {
		return
	}
	r.observer.OnEvent(domain.Event{Name: name, Timestamp: r.clock.Now(), Payload: payload})
}

// toParsedRecords decodes each record's RDATA into a typed domain.Value.
// Records are decoded from their isolated rdata slice rather than the
// original message buffer, so a name embedded in RDATA via a
// compression pointer (common for CNAME/MX/SRV/PTR targets) cannot be
// resolved here; such records still carry Name/Type/TTL, just a nil
// Value, and the failure is logged rather than propagated, matching
// gateways/wire's own tolerant decode-or-log-and-continue behavior.
func (r *Resolver) toParsedRecords(records []domain.ResourceRecord) []domain.ParsedRecord {
	parsed := make([]domain.ParsedRecord, 0, len(records))
	for _, rec := range records {
		value, err := rrdata.Decode(rec.Type, rec.Data, 0, len(rec.Data))
		if err != nil {
			r.logger.Debug(map[string]any{
				"name": rec.Name, "type": rec.Type.String(), "error": err.Error(),
			}, "parsed record value unavailable from isolated rdata; value omitted")
		}
		parsed = append(parsed, domain.ParsedRecord{Name: rec.Name, Type: rec.Type, TTL: rec.TTL(), Value: value})
	}
	return parsed
}

// filterByType returns the subset of records matching rrtype, parsing
// out only the resource records the caller actually asked for.
func filterByType(records []domain.ResourceRecord, rrtype domain.RRType) []domain.ResourceRecord {
	out := make([]domain.ResourceRecord, 0, len(records))
	for _, rec := range records {
		if rec.Type == rrtype {
			out = append(out, rec)
		}
	}
	return out
}

// minTTL returns the smallest ttl among records, or 0 if there are none.
func minTTL(records []domain.ResourceRecord) uint32 {
	if len(records) == 0 {
		return 0
	}
	min := records[0].TTL()
	for _, rec := range records[1:] {
		if t := rec.TTL(); t < min {
			min = t
		}
	}
	return min
}

// sortSRV implements sortSRV simplification: group by
// priority ascending, then sort each group by weight descending. Full
// RFC 2782 weighted shuffling is explicitly not required. Priority and
// weight are read directly from the first four RDATA bytes, which are
// always self-contained (unlike the target name that follows them).
func sortSRV(records []domain.ResourceRecord) []domain.ResourceRecord {
	type srvEntry struct {
		priority uint16
		weight   uint16
		record   domain.ResourceRecord
	}
	entries := make([]srvEntry, 0, len(records))
	for _, rec := range records {
		if len(rec.Data) < 4 {
			entries = append(entries, srvEntry{record: rec})
			continue
		}
		entries = append(entries, srvEntry{
			priority: uint16(rec.Data[0])<<8 | uint16(rec.Data[1]),
			weight:   uint16(rec.Data[2])<<8 | uint16(rec.Data[3]),
			record:   rec,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority < entries[j].priority
		}
		return entries[i].weight > entries[j].weight
	})
	out := make([]domain.ResourceRecord, len(entries))
	for i, e := range entries {
		out[i] = e.record
	}
	return out
}
