package fat9p

import (
	"time"

	"github.com/oschettler/load81-picocalc/fat9p/proto9p"
)

// Defaults for the compile-time configuration knobs §6 of the spec
// lists. A real deployment overrides these with flags wired in
// cmd/fat9pd; tests construct a Config literal directly.
const (
	DefaultPort                 = 564
	DefaultMaxClients           = 3
	DefaultMaxMsize             = proto9p.DefaultMsize
	DefaultMaxFidsPerClient     = 32
	DefaultFSLockTimeout        = 5 * time.Second
	DefaultDispatchQueueCapacity = 64
)

// Config holds the server's tunable limits. The zero Config is not
// valid; call (*Config).withDefaults or construct one via NewConfig.
type Config struct {
	Port             uint16
	MaxClients       int
	MaxMsize         uint32
	MaxFidsPerClient int
	FSLockTimeout    time.Duration

	// DispatchQueueCapacity bounds how many fully-framed requests may
	// wait for the single dispatch worker at once, across every
	// session combined; a connection whose request can't be enqueued
	// blocks until the worker drains one (spec §5's single-handler
	// invariant, §4.5's deferred-processing rule).
	DispatchQueueCapacity int

	Logger Logger
}

// NewConfig returns a Config populated with every default.
func NewConfig() Config {
	return Config{
		Port:                  DefaultPort,
		MaxClients:            DefaultMaxClients,
		MaxMsize:              DefaultMaxMsize,
		MaxFidsPerClient:      DefaultMaxFidsPerClient,
		FSLockTimeout:         DefaultFSLockTimeout,
		DispatchQueueCapacity: DefaultDispatchQueueCapacity,
	}
}

// withDefaults fills in any zero field of c with its default,
// returning the result. Used by Server construction so a caller can
// supply a partial Config.
func (c Config) withDefaults() Config {
	d := NewConfig()
	if c.Port == 0 {
		c.Port = d.Port
	}
	if c.MaxClients == 0 {
		c.MaxClients = d.MaxClients
	}
	if c.MaxMsize == 0 {
		c.MaxMsize = d.MaxMsize
	}
	if c.MaxMsize < proto9p.MinMsize {
		c.MaxMsize = proto9p.MinMsize
	}
	if c.MaxFidsPerClient == 0 {
		c.MaxFidsPerClient = d.MaxFidsPerClient
	}
	if c.FSLockTimeout == 0 {
		c.FSLockTimeout = d.FSLockTimeout
	}
	if c.DispatchQueueCapacity == 0 {
		c.DispatchQueueCapacity = d.DispatchQueueCapacity
	}
	return c
}
