// Package cmd implements the rv command line application.
package cmd

import (
	"flag"
	"fmt"
	"net/http"

	"github.com/etnz/realvalue"
	"github.com/etnz/realvalue/cpisource"
	"github.com/etnz/realvalue/eodhd"
	"github.com/etnz/realvalue/fred"
	"github.com/etnz/realvalue/httpcache"
	"github.com/etnz/realvalue/insee"
	"github.com/etnz/realvalue/yahoo"
	"github.com/google/subcommands"
)

// Commands are the top level commands of rv.
var Commands = []subcommands.Command{
	&compareCmd{},
	&cpiCmd{},
	&fredCmd{},
	&topicCmd{},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd, "")
	}
	c.Register(c.HelpCommand(), "help")
	c.Register(c.FlagsCommand(), "help")
	c.Register(c.CommandsCommand(), "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to a YAML configuration file")
var cacheDir = flag.String("cache-dir", "", "Directory of the HTTP cache. Defaults to RV_CACHE_DIR or the system temporary directory")
var fredAPIKey = flag.String("fred-api-key", "", "FRED API key, takes precedence over the FRED_API_KEY environment variable. You can get one at https://fred.stlouisfed.org/docs/api/api_key.html")
var eodhdAPIKey = flag.String("eodhd-api-key", "", "EODHD API key, takes precedence over the EODHD_API_KEY environment variable. You can get one at https://eodhd.com/")

// settings are the global settings, resolved from flags, environment and configuration file.
type settings struct {
	config   *Config
	fredKey  string
	eodhdKey string
	cacheDir string
}

// loadSettings resolves the global settings.
func loadSettings() (*settings, error) {
	cfg, err := LoadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	env, err := LoadEnv()
	if err != nil {
		return nil, err
	}
	return &settings{
		config:   cfg,
		fredKey:  first(*fredAPIKey, env.FREDAPIKey),
		eodhdKey: first(*eodhdAPIKey, env.EODHDAPIKey),
		cacheDir: first(*cacheDir, env.CacheDir),
	}, nil
}

// client returns an HTTP client caching responses for a period.
func (s *settings) client(period httpcache.Period) *http.Client {
	return httpcache.NewClient(s.cacheDir, period)
}

// cpiSource returns FRED, with INSEE for its overrides.
func (s *settings) cpiSource() realvalue.CPISource {
	f := fred.New(s.fredKey, s.client(httpcache.Monthly))
	return cpisource.NewRouter(f).Handle(insee.Prefix, insee.New(s.client(httpcache.Monthly)))
}

// fxSource returns the named exchange rate source.
func (s *settings) fxSource(name string) (realvalue.FXSource, error) {
	switch name {
	case "", "yahoo":
		return yahoo.New(yahoo.NewClient(s.cacheDir)), nil
	case "eodhd":
		if s.eodhdKey == "" {
			return nil, fmt.Errorf("EODHD API key is not set. Use -eodhd-api-key flag or EODHD_API_KEY environment variable")
		}
		return eodhd.New(s.eodhdKey, s.client(httpcache.Daily)), nil
	}
	return nil, fmt.Errorf("unknown exchange rate source %q, want yahoo or eodhd", name)
}
