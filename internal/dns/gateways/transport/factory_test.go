package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dnsforward/resolver/internal/dns/common/log"
)

func TestNewTransport(t *testing.T) {
	logger := log.NewNoopLogger()

	tests := []struct {
		name          string
		transportType TransportType
		wantErr       bool
		errContains   string
	}{
		{name: "UDP transport success", transportType: TransportUDP},
		{name: "tcp accepted as UDP for parity with source", transportType: "tcp"},
		{name: "DoH transport success", transportType: TransportDoH},
		{
			name: "DoT transport not implemented", transportType: TransportDoT,
			wantErr: true, errContains: "DNS over TLS transport not yet implemented",
		},
		{
			name: "DoQ transport not implemented", transportType: TransportDoQ,
			wantErr: true, errContains: "DNS over QUIC transport not yet implemented",
		},
		{
			name: "unsupported transport type", transportType: TransportType("unknown"),
			wantErr: true, errContains: "unsupported transport type: unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport, err := NewTransport(tt.transportType, DoHOptions{}, logger)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.Nil(t, transport)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, transport)
			}
		})
	}
}

func TestGetSupportedTransports(t *testing.T) {
	supported := GetSupportedTransports()

	assert.NotEmpty(t, supported)
	assert.Contains(t, supported, TransportUDP)
	assert.Contains(t, supported, TransportDoH)

	supported1 := GetSupportedTransports()
	supported2 := GetSupportedTransports()
	if len(supported1) > 0 {
		supported1[0] = TransportType("modified")
	}
	assert.NotEqual(t, supported1[0], supported2[0])
}

func TestIsTransportSupported(t *testing.T) {
	tests := []struct {
		name          string
		transportType TransportType
		expected      bool
	}{
		{name: "UDP is supported", transportType: TransportUDP, expected: true},
		{name: "DoH is supported", transportType: TransportDoH, expected: true},
		{name: "DoT is not supported yet", transportType: TransportDoT, expected: false},
		{name: "DoQ is not supported yet", transportType: TransportDoQ, expected: false},
		{name: "unknown transport is not supported", transportType: TransportType("unknown"), expected: false},
		{name: "empty transport type is not supported", transportType: TransportType(""), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsTransportSupported(tt.transportType)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestTransportConstants(t *testing.T) {
	assert.Equal(t, TransportType("udp"), TransportUDP)
	assert.Equal(t, TransportType("doh"), TransportDoH)
	assert.Equal(t, TransportType("dot"), TransportDoT)
	assert.Equal(t, TransportType("doq"), TransportDoQ)
}
