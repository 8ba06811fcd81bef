// Package config loads runtime configuration for the gymadmin CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment: GYM_* variables, falling back to a dotenv file (-env, or
//     ./.env when present).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the back office API
//	-d string   path of the local SQLite database
//	-p int      rows per list page
//	-i int      session check interval (seconds)
//	-l string   log level
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "15s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "database_path": "gymadmin.db",
//	  "page_size": 10,
//	  "login_timeout": "5s",
//	  "request_timeout": "15s",
//	  "session_check_interval": "30s",
//	  "log_level": "info"
//	}
package config
