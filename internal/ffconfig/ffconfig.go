// Package ffconfig loads frontendforge's TOML configuration file: default
// source file paths, diagnostic dump toggles, and HTTP server settings.
package ffconfig

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/corvidlab/frontendforge/internal/fferrors"
)

// Paths holds default input file locations. cmd/ffc does not read the
// config file; its flags carry their own defaults.
type Paths struct {
	RegexFile   string `toml:"regex_file"`
	GrammarFile string `toml:"grammar_file"`
	SourceFile  string `toml:"source_file"`
}

// Dumps holds toggles for diagnostic artifacts. They are decoded from the
// file but nothing in this module reads them, and no dump files are
// written.
type Dumps struct {
	DFA        bool `toml:"dfa"`
	FirstFollow bool `toml:"first_follow"`
	LR0Items   bool `toml:"lr0_items"`
	SLRTable   bool `toml:"slr_table"`
}

// Server holds cmd/ffserver's listen address and auth settings.
type Server struct {
	Addr         string `toml:"addr"`
	JWTSecret    string `toml:"jwt_secret"`
	HistoryDBPath string `toml:"history_db_path"`
}

// Config is the top-level TOML configuration document.
type Config struct {
	Paths  Paths  `toml:"paths"`
	Dumps  Dumps  `toml:"dumps"`
	Server Server `toml:"server"`
}

// Default returns a Config with sensible built-in defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RegexFile:   "regex.def",
			GrammarFile: "grammar.def",
			SourceFile:  "input.txt",
		},
		Server: Server{
			Addr:          ":8080",
			HistoryDBPath: "frontendforge_history.db",
		},
	}
}

// Load reads and decodes a TOML config file at path, starting from
// Default() so any field omitted in the file keeps its default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fferrors.New("reading config file", err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fferrors.New("decoding config file", fferrors.ErrConfig, err)
	}
	return cfg, nil
}
