/*
Ffserver runs frontendforge's diagnostic HTTP API: compile, tokenize, and
parse requests against ad-hoc regex/grammar sources, with every parse
request recorded to a sqlite-backed run history.

Usage:

	ffserver [flags]

The flags are:

	-c, --config FILE
		Path to the TOML configuration file. Defaults to "ffserver.toml".

	-a, --addr ADDR
		Override the listen address from the config file.
*/
package main

import (
	"log"
	"net/http"

	"github.com/corvidlab/frontendforge/internal/api"
	"github.com/corvidlab/frontendforge/internal/ffconfig"
	"github.com/corvidlab/frontendforge/internal/history"
	"github.com/spf13/pflag"
)

var (
	configPath = pflag.StringP("config", "c", "ffserver.toml", "Path to the TOML configuration file")
	addrFlag   = pflag.StringP("addr", "a", "", "Override the listen address from the config file")
)

func main() {
	pflag.Parse()

	cfg := ffconfig.Default()
	if loaded, err := ffconfig.Load(*configPath); err == nil {
		cfg = loaded
	} else {
		log.Printf("using default configuration: %v", err)
	}

	addr := cfg.Server.Addr
	if *addrFlag != "" {
		addr = *addrFlag
	}

	secret := []byte(cfg.Server.JWTSecret)
	if len(secret) == 0 {
		secret = []byte("frontendforge-dev-secret")
		log.Printf("no jwt_secret configured, using an insecure development default")
	}

	store, err := history.Open(cfg.Server.HistoryDBPath)
	if err != nil {
		log.Fatalf("opening history store: %v", err)
	}
	defer store.Close()

	a := api.API{Secret: secret, History: store}

	log.Printf("frontendforge diagnostic API listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, a.Router()))
}
