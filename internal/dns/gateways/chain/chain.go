// Package chain selects which upstream DNS server a resolve attempt
// should use (C7), rotating among the configured list per a
// failover/round-robin/random strategy and tracking per-server health
// across the resolver's lifetime.
package chain

import (
	"fmt"
	"math/rand"
	"net"
	"sync"

	"github.com/dnsforward/resolver/internal/dns/common/validate"
	"github.com/dnsforward/resolver/internal/dns/services/resolver"
)

// Strategy names a server-selection policy for picking the next
// upstream address.
type Strategy string

const (
	Failover   Strategy = "failover"
	RoundRobin Strategy = "round-robin"
	Random     Strategy = "random"
)

// IsValid reports whether s is one of the three recognised strategies.
func (s Strategy) IsValid() bool {
	switch s {
	case Failover, RoundRobin, Random:
		return true
	default:
		return false
	}
}

// server tracks one configured address's per-cycle and persistent
// health bits. An address is eligible for selection only while both
// are clear of failure: !failed && healthy.
type server struct {
	addr    string
	failed  bool // cleared by ResetFailed or when every server is failed
	healthy bool // cleared by MarkFailed; restored by ResetFailed
}

// Chain holds an ordered list of upstream servers and hands one out per
// resolve attempt according to its configured Strategy.
type Chain struct {
	mu       sync.Mutex
	strategy Strategy
	servers  []*server
	counter  int
	rng      *rand.Rand
}

// New constructs a Chain from the given server addresses and strategy.
// Each address is validated and the list de-duplicated. rng may be nil
// to use the default (non-deterministic) source; tests inject a seeded
// one for reproducibility.
func New(addrs []string, strategy Strategy, rng *rand.Rand) (*Chain, error) {
	if !strategy.IsValid() {
		return nil, fmt.Errorf("chain: invalid rotation strategy: %q", strategy)
	}
	c := &Chain{strategy: strategy, rng: rng}
	seen := make(map[string]bool, len(addrs))
	for _, addr := range addrs {
		if seen[addr] {
			continue
		}
		if err := validateAddress(addr); err != nil {
			return nil, err
		}
		seen[addr] = true
		c.servers = append(c.servers, &server{addr: addr, healthy: true})
	}
	if len(c.servers) == 0 {
		return nil, fmt.Errorf("chain: at least one server is required")
	}
	return c, nil
}

// validateAddress accepts an IPv4 dotted-quad, a bare IPv6 address, or a
// syntactically valid domain name — servers are passed opaquely to the
// transport layer, which appends the DNS port itself.
func validateAddress(addr string) error {
	if ip := net.ParseIP(addr); ip != nil {
		return nil
	}
	if err := validate.DomainName(addr); err != nil {
		return fmt.Errorf("chain: invalid server address %q: %w", addr, err)
	}
	return nil
}

// Add appends a new server address, validating and de-duplicating it.
func (c *Chain) Add(addr string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.servers {
		if s.addr == addr {
			return nil
		}
	}
	if err := validateAddress(addr); err != nil {
		return err
	}
	c.servers = append(c.servers, &server{addr: addr, healthy: true})
	return nil
}

// Remove deletes a server address if present. Removing the last server
// is rejected: a chain must always have at least one candidate.
func (c *Chain) Remove(addr string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.servers) <= 1 {
		return fmt.Errorf("chain: cannot remove the last remaining server")
	}
	for i, s := range c.servers {
		if s.addr == addr {
			c.servers = append(c.servers[:i], c.servers[i+1:]...)
			return nil
		}
	}
	return nil
}

// Servers returns the currently configured server addresses, in order.
func (c *Chain) Servers() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.servers))
	for i, s := range c.servers {
		out[i] = s.addr
	}
	return out
}

// eligible returns the servers not marked failed this cycle and still
// healthy. Caller must hold c.mu.
func (c *Chain) eligible() []*server {
	var out []*server
	for _, s := range c.servers {
		if !s.failed && s.healthy {
			out = append(out, s)
		}
	}
	return out
}

// NextServer selects the next server address per the configured
// strategy. If every server is failed this cycle, it resets every
// server's failed and healthy bits, same as ResetFailed, and returns
// the first configured server, guaranteeing forward progress.
func (c *Chain) NextServer() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	eligible := c.eligible()
	if len(eligible) == 0 {
		for _, s := range c.servers {
			s.failed = false
			s.healthy = true
		}
		return c.servers[0].addr
	}

	switch c.strategy {
	case RoundRobin:
		s := eligible[c.counter%len(eligible)]
		c.counter++
		return s.addr
	case Random:
		idx := c.randIntn(len(eligible))
		return eligible[idx].addr
	case Failover:
		fallthrough
	default:
		return eligible[0].addr
	}
}

func (c *Chain) randIntn(n int) int {
	if c.rng != nil {
		return c.rng.Intn(n)
	}
	return rand.Intn(n)
}

// MarkFailed marks addr failed for this cycle and persistently
// unhealthy, so a subsequent NextServer call skips it until
// ResetFailed runs.
func (c *Chain) MarkFailed(addr string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.servers {
		if s.addr == addr {
			s.failed = true
			s.healthy = false
			return
		}
	}
}

// ResetFailed clears every server's failed bit and restores healthy,
// starting a fresh selection cycle.
func (c *Chain) ResetFailed() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.servers {
		s.failed = false
		s.healthy = true
	}
}

// Healthy reports whether addr is currently marked healthy. Returns
// false for an address not in the chain.
func (c *Chain) Healthy(addr string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.servers {
		if s.addr == addr {
			return s.healthy
		}
	}
	return false
}

var _ resolver.ServerChain = (*Chain)(nil)
