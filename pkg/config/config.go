// Package config loads the hyperlane.yaml settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/praetorian-inc/hyperlane-cli/pkg/graphql"
	"github.com/praetorian-inc/hyperlane-cli/pkg/matchlist"
	"github.com/praetorian-inc/hyperlane-cli/pkg/search"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "hyperlane.yaml"

// Config is the root YAML structure.
type Config struct {
	GraphQL      GraphQLConfig          `yaml:"graphql"`
	Chain        ChainConfig            `yaml:"chain"`
	Search       SearchConfig           `yaml:"search"`
	MatchingList matchlist.MatchingList `yaml:"matching_list"`
}

// GraphQLConfig configures the indexer API.
type GraphQLConfig struct {
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token,omitempty"` // environment variables are expanded
}

// ChainConfig configures message submission.
type ChainConfig struct {
	RPCURL  string `yaml:"rpc_url"`
	Mailbox string `yaml:"mailbox"`
}

// SearchConfig holds search defaults.
type SearchConfig struct {
	Source   string `yaml:"source"`    // graphql, sqlite or postgres
	DB       string `yaml:"db"`        // SQLite snapshot path
	DSN      string `yaml:"dsn"`       // PostgreSQL DSN; environment variables are expanded
	Limit    int    `yaml:"limit"`
	Workers  int    `yaml:"workers"`
	OnEmpty  string `yaml:"on_empty"`  // all or stop
	MatchAll string `yaml:"match_all"` // single or skip
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		GraphQL: GraphQLConfig{Endpoint: graphql.DefaultEndpoint},
		Search: SearchConfig{
			Source:   "graphql",
			Limit:    search.DefaultLimit,
			Workers:  search.DefaultWorkers,
			OnEmpty:  search.ReportAll.String(),
			MatchAll: matchlist.UnconstrainedSingle.String(),
		},
	}
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.GraphQL.Token = os.ExpandEnv(cfg.GraphQL.Token)
	cfg.Search.DSN = os.ExpandEnv(cfg.Search.DSN)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the file at path. A missing file at DefaultPath yields the
// defaults; a missing explicit path is an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Search.Source {
	case "graphql", "sqlite", "postgres":
	default:
		return fmt.Errorf("search.source: unknown source %q", c.Search.Source)
	}
	if c.Search.Limit < 0 {
		return fmt.Errorf("search.limit: must not be negative")
	}
	if c.Search.Workers < 0 {
		return fmt.Errorf("search.workers: must not be negative")
	}
	if _, err := search.ParseEmptyResultPolicy(c.Search.OnEmpty); err != nil {
		return fmt.Errorf("search.on_empty: %w", err)
	}
	if _, err := matchlist.ParseUnconstrainedPolicy(c.Search.MatchAll); err != nil {
		return fmt.Errorf("search.match_all: %w", err)
	}
	return nil
}
