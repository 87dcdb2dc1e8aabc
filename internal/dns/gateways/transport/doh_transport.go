package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/dnsforward/resolver/internal/dns/common/log"
	"github.com/dnsforward/resolver/internal/dns/services/resolver"
)

const dohContentType = "application/dns-message"

// DoHMethod selects between the RFC 8484 POST and GET request forms.
type DoHMethod string

const (
	DoHMethodPOST DoHMethod = "POST"
	DoHMethodGET  DoHMethod = "GET"
)

// DoHOptions configures a DoHTransport.
type DoHOptions struct {
	// Method selects POST (raw body) or GET (base64url query param).
	// Defaults to POST.
	Method DoHMethod
	Client *http.Client
}

// DoHTransport dispatches a single already-encoded DNS query over HTTPS
// (C6, RFC 8484). The server argument to Query is the DoH endpoint URL.
type DoHTransport struct {
	method DoHMethod
	client *http.Client
	logger log.Logger
}

// NewDoHTransport creates a DoH transport with the given options and
// logger. A nil Client defaults to http.DefaultClient; an empty Method
// defaults to POST.
func NewDoHTransport(opts DoHOptions, logger log.Logger) *DoHTransport {
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	method := opts.Method
	if method == "" {
		method = DoHMethodPOST
	}
	return &DoHTransport{method: method, client: client, logger: logger}
}

// Query POSTs (or GETs) queryBytes to the DoH endpoint named by server
// and returns the raw response body. Non-2xx responses are transport
// failures with the status code and reason preserved.
func (t *DoHTransport) Query(ctx context.Context, server string, queryBytes []byte) ([]byte, error) {
	var req *http.Request
	var err error

	switch t.method {
	case DoHMethodGET:
		encoded := base64.RawURLEncoding.EncodeToString(queryBytes)
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, server+"?dns="+encoded, nil)
	default:
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, server, bytes.NewReader(queryBytes))
		if err == nil {
			req.Header.Set("Content-Type", dohContentType)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("transport: failed to build DoH request for %s: %w", server, err)
	}
	req.Header.Set("Accept", dohContentType)

	resp, err := t.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("transport: DoH query to %s timed out: %w", server, ctx.Err())
		}
		return nil, fmt.Errorf("transport: DoH request to %s failed: %w", server, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("transport: DoH server %s returned status %d %s", server, resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("transport: failed to read DoH response body from %s: %w", server, err)
	}

	t.logger.Debug(map[string]any{
		"server": server, "method": string(t.method), "size": len(body),
	}, "received DoH response")

	return body, nil
}

var _ Transport = (*DoHTransport)(nil)
var _ resolver.Transport = (*DoHTransport)(nil)
