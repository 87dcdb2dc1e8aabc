// Package resolver is a client-side DNS resolution library: it builds
// and dispatches DNS queries over UDP or DNS-over-HTTPS, retries across
// a configurable set of upstream servers with backoff, parses responses
// into typed records, and optionally caches them by TTL.
//
// It never listens for or answers inbound queries, never serves a
// zone, and performs no DNSSEC cryptographic validation — only AD-bit
// observation when configured to do so. See Config for the options
// available and Resolver.Resolve for the primary entry point.
package resolver
