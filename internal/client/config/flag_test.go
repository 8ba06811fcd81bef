package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd", "-a", "http://api:9000", "-d", "/tmp/g.db", "-p", "25", "-i", "10", "-l", "debug"},
			expected: &Config{
				ServerURL:            "http://api:9000",
				DatabasePath:         "/tmp/g.db",
				PageSize:             25,
				SessionCheckInterval: 10 * time.Second,
				LogLevel:             "debug",
			},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"cmd", "-c", "cfg.json", "-a=http://api:9000", "-env", ".env.test"},
			expected: &Config{ServerURL: "http://api:9000"},
		},
		{name: "incorrect check interval", args: []string{"cmd", "-i", "abc"}, expectPanic: true},
		{name: "incorrect page size", args: []string{"cmd", "-p", "ten"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
