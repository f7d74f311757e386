package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidate(t *testing.T) {
	base := DefaultConfig()

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"zero capacity", func(c *Config) { c.Capacity = 0 }, true},
		{"negative readers", func(c *Config) { c.Readers = -1 }, true},
		{"negative writers", func(c *Config) { c.Writers = -1 }, true},
		{"zero writer batch", func(c *Config) { c.WriterBatch = 0 }, true},
		{"zero duration", func(c *Config) { c.Duration = 0 }, true},
		{"negative reader delay", func(c *Config) { c.ReaderDelay = -time.Microsecond }, true},
		{"negative writer delay", func(c *Config) { c.WriterDelay = -time.Microsecond }, true},
		{"zero readers is allowed", func(c *Config) { c.Readers = 0 }, false},
		{"zero writers is allowed", func(c *Config) { c.Writers = 0 }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRingMemorySize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Capacity = 1024
	assert.Greater(t, uint64(cfg.RingMemorySize()), uint64(0))
}
