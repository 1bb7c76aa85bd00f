package config

import (
	"sync/atomic"
)

// Provider hands out the current configuration snapshot. Readers call Get on
// every request; Update swaps the snapshot atomically so in-flight requests
// keep the config they started with.
type Provider struct {
	current atomic.Pointer[Config]
}

func NewProvider(cfg *Config) *Provider {
	p := &Provider{}
	p.current.Store(cfg)
	return p
}

// Get returns the active configuration. The returned value must be treated
// as read-only.
func (p *Provider) Get() *Config {
	return p.current.Load()
}

// Update replaces the active configuration.
func (p *Provider) Update(cfg *Config) {
	p.current.Store(cfg)
}
