package config

import (
	"encoding/json"
	"os"

	"github.com/dimasprakoso/siakad-cli/internal/client/api"
	"github.com/dimasprakoso/siakad-cli/internal/flagx"
	"github.com/dimasprakoso/siakad-cli/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "15s" or as integer nanoseconds. After parsing, set values are copied
// into the runtime Config.
type JsonConfig struct {
	BaseURL            string         `json:"base_url"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	PageSize           int            `json:"page_size"`
	SessionDBPath      string         `json:"session_db_path"`
	UnauthorizedPolicy string         `json:"unauthorized_policy"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// the -c/-config flags. Absent flags mean no JSON is loaded. Only fields
// present in the file override the config. Panics on read or unmarshal
// errors, matching the fail-fast startup behavior of the flag layer.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
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

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.SessionDBPath != "" {
		cfg.SessionDBPath = jc.SessionDBPath
	}
	if jc.UnauthorizedPolicy != "" {
		cfg.UnauthorizedPolicy = api.UnauthorizedPolicy(jc.UnauthorizedPolicy)
	}
}
