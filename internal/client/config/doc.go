// Package config loads runtime configuration for the chatdesk console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment: CHATDESK_API_BASE_URL and CHATDESK_API_TIMEOUT.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-t int      API call timeout (seconds)
//	-s string   store backend: sqlite, file, redis or memory
//	-p string   store path (sqlite database or JSON file)
//	-r string   redis address
//	-l string   log level
//	-f string   log format: text, json or console
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so it can be either a
// string like "30s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://127.0.0.1:8000",
//	  "api_timeout": "30s",
//	  "store": "sqlite",
//	  "store_path": "chatdesk.db",
//	  "redis_addr": "127.0.0.1:6379",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
package config
