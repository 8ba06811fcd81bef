package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	configFlags := []string{"-c", "-config"}
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{"no args", nil, configFlags, []string{}},
		{"separate value", []string{"-c", "gym.json", "-a", "http://api:8000"}, configFlags, []string{"-c", "gym.json"}},
		{"equals form", []string{"-config=gym.json", "-p", "25"}, configFlags, []string{"-config=gym.json"}},
		{"equals form of unknown flag dropped", []string{"-p=25", "-l=debug"}, configFlags, []string{}},
		{"dash token is not a value", []string{"-c", "-d", "local.db"}, configFlags, []string{"-c"}},
		{"trailing flag without value", []string{"-a", "http://api", "-c"}, configFlags, []string{"-c"}},
		{"repeats keep order", []string{"-c", "a.json", "-config", "b.json"}, configFlags, []string{"-c", "a.json", "-config", "b.json"}},
		{"value with spaces stays whole", []string{"-d", "/var/lib/gym admin/db.sqlite"}, []string{"-d"}, []string{"-d", "/var/lib/gym admin/db.sqlite"}},
		{"positional args dropped", []string{"users", "-i", "30", "extra"}, []string{"-i"}, []string{"-i", "30"}},
		{"all app flags", []string{"-a", "u", "-d", "db", "-p", "5", "-i", "9", "-l", "warn", "-env", "x"},
			[]string{"-a", "-d", "-p", "-i", "-l"}, []string{"-a", "u", "-d", "db", "-p", "5", "-i", "9", "-l", "warn"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestLookupString(t *testing.T) {
	args := []string{"-a", "http://x", "-c", "/path/1.json", "-config", "/path/2.json", "-env=.env.test"}

	assert.Equal(t, "/path/2.json", LookupString(args, "c", "config"))
	assert.Equal(t, ".env.test", LookupString(args, "env"))
	assert.Empty(t, LookupString(args, "missing"))
}

func TestConfigFileFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/short.json"}
		assert.Equal(t, "/path/short.json", ConfigFileFlag())
	})

	t.Run("long -config with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", "/path/long.json"}
		assert.Equal(t, "/path/long.json", ConfigFileFlag())
	})

	t.Run("unknown flags are ignored", func(t *testing.T) {
		os.Args = []string{"testbin", "-x", "1", "-y", "2"}
		assert.Empty(t, ConfigFileFlag())
	})

	t.Run("env file flag", func(t *testing.T) {
		os.Args = []string{"testbin", "-env", "prod.env", "-c", "cfg.json"}
		assert.Equal(t, "prod.env", EnvFileFlag())
	})
}
