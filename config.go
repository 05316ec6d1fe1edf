package arcs

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/arcs/service/meta"
	"github.com/viant/arcs/service/pool"
	"github.com/viant/arcs/service/storagekey"
)

// Config is a serialisable representation of the allocator configuration. It
// can be decoded from YAML, JSON or TOML; zero sections inherit defaults.
type Config struct {
	Pool        PoolConfig       `json:"pool" yaml:"pool" toml:"pool"`
	StorageKeys StorageKeyConfig `json:"storageKeys" yaml:"storageKeys" toml:"storageKeys"`
	Registry    RegistryConfig   `json:"registry" yaml:"registry" toml:"registry"`
	Tracing     TracingConfig    `json:"tracing" yaml:"tracing" toml:"tracing"`
	Hosts       []*HostConfig    `json:"hosts,omitempty" yaml:"hosts,omitempty" toml:"hosts,omitempty"`
}

// PoolConfig sizes the worker pool shared by the hosts.
type PoolConfig struct {
	Cap     int    `json:"cap" yaml:"cap" toml:"cap"`
	Policy  string `json:"policy" yaml:"policy" toml:"policy"`
	Weight  uint   `json:"weight" yaml:"weight" toml:"weight"`
	Initial int    `json:"initial,omitempty" yaml:"initial,omitempty" toml:"initial,omitempty"`
}

// StorageKeyConfig controls storage key selection.
type StorageKeyConfig struct {
	Preference    []string `json:"preference,omitempty" yaml:"preference,omitempty" toml:"preference,omitempty"`
	ReferenceMode bool     `json:"referenceMode,omitempty" yaml:"referenceMode,omitempty" toml:"referenceMode,omitempty"`
	DBName        string   `json:"dbName,omitempty" yaml:"dbName,omitempty" toml:"dbName,omitempty"`
}

// RegistryConfig locates persisted arc records; an empty URL keeps them in
// memory.
type RegistryConfig struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
}

// TracingConfig enables OpenTelemetry when Service is set. An empty Output
// writes spans to stdout.
type TracingConfig struct {
	Service string `json:"service,omitempty" yaml:"service,omitempty" toml:"service,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	Output  string `json:"output,omitempty" yaml:"output,omitempty" toml:"output,omitempty"`
}

// HostConfig declares an arc host accepting particles whose location starts
// with one of Prefixes; no prefixes accepts every particle.
type HostConfig struct {
	ID       string   `json:"id" yaml:"id" toml:"id"`
	Prefixes []string `json:"prefixes,omitempty" yaml:"prefixes,omitempty" toml:"prefixes,omitempty"`
}

// DefaultHostID names the host created when no hosts are configured.
const DefaultHostID = "host"

// DefaultConfig returns a Config populated with the package defaults.
// Callers may modify it before passing it to WithConfig.
func DefaultConfig() *Config {
	return &Config{
		Pool: PoolConfig{
			Cap:    pool.DefaultCap,
			Policy: pool.PolicyConservative,
			Weight: pool.DefaultWeight,
		},
		StorageKeys: StorageKeyConfig{
			Preference: append([]string(nil), storagekey.DefaultPreference...),
		},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Pool.Cap <= 0 {
		errs = append(errs, fmt.Errorf("pool.cap must be > 0"))
	}
	if c.Pool.Initial < 0 || c.Pool.Initial > c.Pool.Cap {
		errs = append(errs, fmt.Errorf("pool.initial must be within [0, %d]", c.Pool.Cap))
	}
	switch c.Pool.Policy {
	case "", pool.PolicyAggressive, pool.PolicyConservative, pool.PolicyPredictive:
	default:
		errs = append(errs, fmt.Errorf("unsupported pool.policy %q", c.Pool.Policy))
	}
	if c.Pool.Weight > 16 {
		errs = append(errs, fmt.Errorf("pool.weight must be <= 16"))
	}
	seen := map[string]bool{}
	for _, protocol := range c.StorageKeys.Preference {
		if seen[protocol] {
			errs = append(errs, fmt.Errorf("duplicate storageKeys.preference %q", protocol))
		}
		seen[protocol] = true
	}
	hosts := map[string]bool{}
	for i, host := range c.Hosts {
		if host == nil || host.ID == "" {
			errs = append(errs, fmt.Errorf("hosts[%d].id was empty", i))
			continue
		}
		if hosts[host.ID] {
			errs = append(errs, fmt.Errorf("duplicate host %q", host.ID))
		}
		hosts[host.ID] = true
	}
	return errors.Join(errs...)
}

// LoadConfig reads a YAML, JSON or TOML config at URL over DefaultConfig.
func LoadConfig(ctx context.Context, metaService *meta.Service, URL string) (*Config, error) {
	if metaService == nil {
		metaService = meta.New(nil, "")
	}
	ret := DefaultConfig()
	if err := metaService.Load(ctx, URL, ret); err != nil {
		return nil, err
	}
	if err := ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return ret, nil
}
