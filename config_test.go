package arcs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/arcs"
	"github.com/viant/arcs/service/meta"
	"github.com/viant/arcs/service/pool"
	"github.com/viant/arcs/service/storagekey"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ARCS_REGISTRY", "/tmp/arcs/registry")
	metaService := meta.New(afs.New(), "embed:///testdata", &embedFS)
	testCases := []struct {
		description string
		URL         string
		expect      *arcs.Config
	}{
		{
			description: "yaml config",
			URL:         "config.yaml",
			expect: &arcs.Config{
				Pool:        arcs.PoolConfig{Cap: 4, Policy: pool.PolicyPredictive, Weight: 3, Initial: 1},
				StorageKeys: arcs.StorageKeyConfig{Preference: []string{"ramdisk", "volatile", "memdb", "db"}, DBName: "people"},
				Hosts:       []*arcs.HostConfig{{ID: "wasm", Prefixes: []string{"wasm/"}}, {ID: "jvm", Prefixes: []string{"jvm/"}}},
			},
		},
		{
			description: "toml config with env expansion",
			URL:         "config.toml",
			expect: &arcs.Config{
				Pool:        arcs.PoolConfig{Cap: 8, Policy: pool.PolicyAggressive, Weight: pool.DefaultWeight},
				StorageKeys: arcs.StorageKeyConfig{Preference: storagekey.DefaultPreference, ReferenceMode: true},
				Registry:    arcs.RegistryConfig{URL: "/tmp/arcs/registry"},
				Hosts:       []*arcs.HostConfig{{ID: "any"}},
			},
		},
	}
	for _, testCase := range testCases {
		actual, err := arcs.LoadConfig(context.Background(), metaService, testCase.URL)
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}

	_, err := arcs.LoadConfig(context.Background(), metaService, "missing.yaml")
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(c *arcs.Config)
		expectErr   bool
	}{
		{description: "defaults", mutate: func(c *arcs.Config) {}},
		{description: "zero cap", mutate: func(c *arcs.Config) { c.Pool.Cap = 0 }, expectErr: true},
		{description: "initial above cap", mutate: func(c *arcs.Config) { c.Pool.Initial = c.Pool.Cap + 1 }, expectErr: true},
		{description: "unknown policy", mutate: func(c *arcs.Config) { c.Pool.Policy = "greedy" }, expectErr: true},
		{description: "empty policy", mutate: func(c *arcs.Config) { c.Pool.Policy = "" }},
		{description: "weight too large", mutate: func(c *arcs.Config) { c.Pool.Weight = 32 }, expectErr: true},
		{description: "duplicate preference", mutate: func(c *arcs.Config) { c.StorageKeys.Preference = []string{"db", "db"} }, expectErr: true},
		{description: "host without id", mutate: func(c *arcs.Config) { c.Hosts = []*arcs.HostConfig{{}} }, expectErr: true},
		{description: "duplicate host", mutate: func(c *arcs.Config) { c.Hosts = []*arcs.HostConfig{{ID: "a"}, {ID: "a"}} }, expectErr: true},
	}
	for _, testCase := range testCases {
		config := arcs.DefaultConfig()
		testCase.mutate(config)
		err := config.Validate()
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		assert.NoError(t, err, testCase.description)
	}
	var nilConfig *arcs.Config
	assert.NoError(t, nilConfig.Validate())
}
