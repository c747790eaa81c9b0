// Package config loads runtime configuration for the MedQuery CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c / -config, or the
//     MEDQUERY_CONFIG environment variable.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend base URL
//	-s string   session storage file ("" disables persistence)
//	-t int      request timeout (seconds, 0 for none)
//	-l string   log level
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "30s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://localhost:8000",
//	  "storage_path": ".medquery/session.db",
//	  "request_timeout": "30s",
//	  "log_level": "info"
//	}
package config
