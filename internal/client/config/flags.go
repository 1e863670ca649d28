package config

import (
	"flag"
	"os"
	"time"

	"github.com/dimasprakoso/siakad-cli/internal/client/api"
	"github.com/dimasprakoso/siakad-cli/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the backend API
//	-t int      request timeout in seconds
//	-p int      page size for list views
//	-d string   path to the local session database
//	-u string   unauthorized policy: none | logout
//
// The function filters os.Args to only the flags it owns, via
// flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-p", "-d", "-u"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the backend API")
	timeoutSec := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "rows per page in list views")
	fs.StringVar(&cfg.SessionDBPath, "d", cfg.SessionDBPath, "path to the local session database")
	policy := fs.String("u", string(cfg.UnauthorizedPolicy), "unauthorized policy: none | logout")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeoutSec) * time.Second
	cfg.UnauthorizedPolicy = api.UnauthorizedPolicy(*policy)
}
