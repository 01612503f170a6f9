package cmd

import (
	"os"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/phuslu/log"
)

const configFile = ".taxpool.toml"

// AppConfig holds the optional per-directory configuration.
type AppConfig struct {
	Ledger  string `toml:"ledger"`  // default ledger file path
	Verbose bool   `toml:"verbose"` // default for the -v flag
}

var (
	configOnce sync.Once
	config     AppConfig
)

// Config reads .taxpool.toml from the working directory once. A missing or
// unreadable file is a valid empty configuration.
func Config() AppConfig {
	configOnce.Do(func() {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return
		}
		if err := toml.Unmarshal(data, &config); err != nil {
			log.Warn().Str("file", configFile).Err(err).Msg("ignoring invalid config")
			config = AppConfig{}
		}
	})
	return config
}
