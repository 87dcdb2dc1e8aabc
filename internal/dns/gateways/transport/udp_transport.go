package transport

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"time"

	"github.com/dnsforward/resolver/internal/dns/common/log"
	"github.com/dnsforward/resolver/internal/dns/services/resolver"
)

// DialFunc establishes a network connection. Swappable for testing.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// UDPTransport dispatches a single already-encoded DNS query over UDP to
// one server and returns the raw response datagram (C5). A resolve
// attempt owns a private socket for its duration; there is no
// multiplexing across resolves at this layer.
type UDPTransport struct {
	logger log.Logger
	dial   DialFunc
}

// NewUDPTransport creates a UDP transport using the given logger. dial
// defaults to net.Dialer.DialContext; override it in tests.
func NewUDPTransport(logger log.Logger, dial DialFunc) *UDPTransport {
	if dial == nil {
		dial = (&net.Dialer{}).DialContext
	}
	return &UDPTransport{logger: logger, dial: dial}
}

// Query sends queryBytes to server over UDP and returns the first
// datagram whose leading two bytes (the transaction id) match the id
// embedded in queryBytes, discarding any stray or late datagrams from a
// prior exchange on the same socket. The socket is always released on
// return, including on error or context cancellation (idempotent close:
// net.Conn.Close tolerates being invoked through defer even if a caller
// also closes it).
func (t *UDPTransport) Query(ctx context.Context, server string, queryBytes []byte) ([]byte, error) {
	if len(queryBytes) < 2 {
		return nil, fmt.Errorf("transport: query too short to carry a transaction id")
	}
	expectedID := binary.BigEndian.Uint16(queryBytes[0:2])

	conn, err := t.dial(ctx, "udp", server)
	if err != nil {
		return nil, fmt.Errorf("transport: failed to connect to %s: %w", server, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := conn.Write(queryBytes); err != nil {
		return nil, fmt.Errorf("transport: write to %s failed: %w", server, err)
	}

	buf := make([]byte, 65535)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("transport: query to %s timed out: %w", server, ctx.Err())
			}
			return nil, fmt.Errorf("transport: read from %s failed: %w", server, err)
		}
		if n < 2 {
			continue // too short to carry an id; discard and keep waiting
		}
		if binary.BigEndian.Uint16(buf[0:2]) != expectedID {
			t.logger.Debug(map[string]any{
				"server": server, "expected_id": expectedID,
			}, "discarding stray datagram with mismatched transaction id")
			continue
		}
		out := make([]byte, n)
		copy(out, buf[:n])
		return out, nil
	}
}

var _ Transport = (*UDPTransport)(nil)
var _ resolver.Transport = (*UDPTransport)(nil)
