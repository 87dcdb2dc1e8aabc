package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// CacheConfig controls the C8 response cache.
type CacheConfig struct {
	Enabled    bool `koanf:"enabled"`
	MaxSize    int  `koanf:"max_size" validate:"gte=1"`
	RespectTTL bool `koanf:"respect_ttl"`
	MinTTL     int  `koanf:"min_ttl" validate:"gte=0"`
	MaxTTL     int  `koanf:"max_ttl" validate:"gtefield=MinTTL"`
}

// DNSSECConfig controls AD-bit observation. This library performs no
// cryptographic validation; "enabled" only governs whether the AD bit
// of responses is surfaced to callers and observers.
type DNSSECConfig struct {
	Enabled      bool     `koanf:"enabled"`
	RequireValid bool     `koanf:"require_valid"`
	TrustAnchors []string `koanf:"trust_anchors"`
}

// ResolverConfig is the full set of options accepted by the resolver
// core.
type ResolverConfig struct {
	Servers          []string     `koanf:"servers" validate:"required,min=1,dive,required"`
	TimeoutMS        int          `koanf:"timeout" validate:"gte=1"`
	Retries          int          `koanf:"retries" validate:"gte=0"`
	RetryDelayMS     int          `koanf:"retry_delay" validate:"gte=0"`
	RetryBackoff     string       `koanf:"retry_backoff" validate:"oneof=exponential linear constant"`
	Type             string       `koanf:"type" validate:"oneof=udp tcp doh"`
	Server           string       `koanf:"server" validate:"omitempty,url"`
	Cache            CacheConfig  `koanf:"cache"`
	DNSSEC           DNSSECConfig `koanf:"dnssec"`
	RotationStrategy string       `koanf:"rotation_strategy" validate:"oneof=failover round-robin random"`
	HealthCheck      bool         `koanf:"health_check"`
}

// DefaultResolverConfig returns the library's recognised defaults.
// Callers build overrides by copying this value and mutating only the
// fields they care about before calling Load.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		Servers:      []string{"8.8.8.8", "1.1.1.1"},
		TimeoutMS:    5000,
		Retries:      2,
		RetryDelayMS: 100,
		RetryBackoff: "exponential",
		Type:         "udp",
		Cache: CacheConfig{
			Enabled:    true,
			MaxSize:    1000,
			RespectTTL: true,
			MinTTL:     60,
			MaxTTL:     86400,
		},
		RotationStrategy: "failover",
	}
}

// Load merges overrides onto the default configuration and validates the
// result. A nil overrides returns the defaults unchanged (after
// validation). This performs no environment, file, or CLI I/O: both
// loads are in-memory structs.Provider passes.
func Load(overrides *ResolverConfig) (*ResolverConfig, error) {
	k := koanf.New(".")

	defaults := DefaultResolverConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: error loading defaults: %w", err)
	}

	if overrides != nil {
		if err := k.Load(structs.Provider(*overrides, "koanf"), nil); err != nil {
			return nil, fmt.Errorf("config: error loading overrides: %w", err)
		}
	}

	var cfg ResolverConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return &cfg, nil
}
