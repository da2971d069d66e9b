package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// ServerConfig is the configuration of the reference list service.
type ServerConfig struct {
	LogLevel string
	Server   Server
	Storage  Storage
}

// ServerDefaults are applied to every field no other source set.
var ServerDefaults = StructuredConfig{
	App:     App{LogLevel: "info"},
	Storage: Storage{DB: DB{DSN: "go-list-keeper-server.db"}},
	Server:  Server{HTTPAddress: "localhost:8080", RequestTimeout: 30 * time.Second},
}

// GetServerConfig builds and validates the server view of the merged
// configuration.
func GetServerConfig(fs *pflag.FlagSet) (*ServerConfig, error) {
	cfg, err := GetStructuredConfig(fs, ServerDefaults)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		LogLevel: cfg.App.LogLevel,
		Server:   cfg.Server,
		Storage:  cfg.Storage,
	}

	return serverCfg, serverCfg.validate()
}
