package domain

import "fmt"

// GenerateCacheKey returns a consistent cache key derived from a DNS
// name and record type. Class is not part of the key: this resolver
// only ever queries the IN class, so including it would add no
// discriminating power while complicating every call site.
func GenerateCacheKey(name string, t RRType) string {
	return fmt.Sprintf("%s:%s", name, t.String())
}
