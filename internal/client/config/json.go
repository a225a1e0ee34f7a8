package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/chatdesk/internal/flagx"
	"github.com/dmitrijs2005/chatdesk/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify the timeout either as a
// string like "30s" or as integer nanoseconds. Empty fields leave the
// current value alone.
type JsonConfig struct {
	APIBaseURL   string         `json:"api_base_url"`
	APITimeout   timex.Duration `json:"api_timeout"`
	StoreBackend string         `json:"store"`
	StorePath    string         `json:"store_path"`
	RedisAddr    string         `json:"redis_addr"`
	LogLevel     string         `json:"log_level"`
	LogFormat    string         `json:"log_format"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag it does nothing. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.StoreBackend, jc.StoreBackend)
	setString(&cfg.StorePath, jc.StorePath)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	if jc.APITimeout.Duration > 0 {
		cfg.APITimeout = time.Duration(jc.APITimeout.Duration)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
