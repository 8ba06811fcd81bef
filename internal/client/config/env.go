package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/gymadmin/internal/flagx"
)

// Environment variables read by parseEnv.
const (
	EnvServerURL            = "GYM_API_URL"
	EnvDatabasePath         = "GYM_DB_PATH"
	EnvPageSize             = "GYM_PAGE_SIZE"
	EnvLoginTimeout         = "GYM_LOGIN_TIMEOUT"
	EnvRequestTimeout       = "GYM_REQUEST_TIMEOUT"
	EnvSessionCheckInterval = "GYM_SESSION_CHECK_INTERVAL"
	EnvLogLevel             = "GYM_LOG_LEVEL"
)

const defaultEnvFile = ".env"

// parseEnv overlays Config with GYM_* variables. Values come from the
// process environment first and then from a dotenv file: the one named by
// -env, or ./.env when it exists. A missing ./.env is ignored; a missing
// explicit file or a malformed value panics.
func parseEnv(cfg *Config) {
	file := flagx.EnvFileFlag()
	explicit := file != ""
	if !explicit {
		file = defaultEnvFile
	}

	fileVars, err := godotenv.Read(file)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			panic(fmt.Errorf("read env file %s: %w", file, err))
		}
		fileVars = map[string]string{}
	}

	applyEnv(cfg, func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	})
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvServerURL); ok {
		cfg.ServerURL = v
	}
	if v, ok := lookup(EnvDatabasePath); ok {
		cfg.DatabasePath = v
	}
	if v, ok := lookup(EnvPageSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvPageSize, err))
		}
		cfg.PageSize = n
	}
	envDuration(lookup, EnvLoginTimeout, &cfg.LoginTimeout)
	envDuration(lookup, EnvRequestTimeout, &cfg.RequestTimeout)
	envDuration(lookup, EnvSessionCheckInterval, &cfg.SessionCheckInterval)
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
}

func envDuration(lookup func(string) (string, bool), key string, dst *time.Duration) {
	v, ok := lookup(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	*dst = d
}
