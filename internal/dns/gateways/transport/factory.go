package transport

import (
	"context"
	"fmt"

	"github.com/dnsforward/resolver/internal/dns/common/log"
)

// Transport dispatches one encoded wire query to one server and returns
// the raw response bytes. UDPTransport and DoHTransport both implement
// it; the resolver core decodes the result through gateways/wire.
type Transport interface {
	Query(ctx context.Context, server string, queryBytes []byte) ([]byte, error)
}

// NewTransport creates a Transport for the given type. This factory
// allows the resolver core to select a transport from configuration
// (`type` option) without knowing the concrete types.
func NewTransport(transportType TransportType, dohOpts DoHOptions, logger log.Logger) (Transport, error) {
	switch transportType {
	case TransportUDP, "tcp":
		// "tcp" is accepted but implemented as UDP: this library never
		// falls back to stream-based retransmission.
		return NewUDPTransport(logger, nil), nil

	case TransportDoH:
		return NewDoHTransport(dohOpts, logger), nil

	case TransportDoT:
		return nil, fmt.Errorf("DNS over TLS transport not yet implemented")

	case TransportDoQ:
		return nil, fmt.Errorf("DNS over QUIC transport not yet implemented")

	default:
		return nil, fmt.Errorf("unsupported transport type: %s", transportType)
	}
}

// GetSupportedTransports returns a list of currently supported transport types.
func GetSupportedTransports() []TransportType {
	return []TransportType{
		TransportUDP,
		TransportDoH,
		// Future implementations will be added here:
		// TransportDoT,
		// TransportDoQ,
	}
}

// IsTransportSupported checks if a given transport type is currently supported.
func IsTransportSupported(transportType TransportType) bool {
	supported := GetSupportedTransports()
	for _, t := range supported {
		if t == transportType {
			return true
		}
	}
	return false
}
