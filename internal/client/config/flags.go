package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/chatdesk/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the REST API
//	-t int      API call timeout in seconds
//	-s string   store backend: sqlite, file, redis or memory
//	-p string   store path for the sqlite and file backends
//	-r string   redis address for the redis backend
//	-l string   log level
//	-f string   log format: text, json or console
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-s", "-p", "-r", "-l", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the REST API")
	timeout := fs.Int("t", int(cfg.APITimeout.Seconds()), "API call timeout (in seconds)")
	fs.StringVar(&cfg.StoreBackend, "s", cfg.StoreBackend, "store backend: sqlite, file, redis or memory")
	fs.StringVar(&cfg.StorePath, "p", cfg.StorePath, "store path for the sqlite and file backends")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address for the redis backend")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format: text, json or console")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only an explicit -t overrides: the default is rounded to whole seconds.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.APITimeout = time.Duration(*timeout) * time.Second
		}
	})
}
