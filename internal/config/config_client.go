package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// ClientApp holds client logging settings.
type ClientApp struct {
	// LogFile is the rotating log file; the terminal belongs to the CLI output.
	LogFile string
	// LogLevel is a zerolog level name.
	LogLevel string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the base URL of the list service.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the sqlite file backing the local store.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	DB ClientDB
}

// ClientSync contains mutation queue replay settings.
type ClientSync struct {
	// MaxReplayAttempts is the number of rejections an operation survives.
	MaxReplayAttempts int
}

// ClientWorkers contains client background job settings.
type ClientWorkers struct {
	// ProbeInterval is how often the reachability probe runs. Zero or
	// negative disables it.
	ProbeInterval time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Sync    ClientSync
	Workers ClientWorkers
}

// ClientDefaults are applied to every field no other source set.
var ClientDefaults = StructuredConfig{
	App:     App{LogFile: "go-list-keeper.log", LogLevel: "info"},
	Storage: Storage{DB: DB{DSN: "go-list-keeper.db"}},
	Adapter: Adapter{HTTPAddress: "http://localhost:8080", RequestTimeout: 5 * time.Second},
	Sync:    Sync{MaxReplayAttempts: 5},
	Workers: Workers{ProbeInterval: 10 * time.Second},
}

// GetClientConfig builds and validates the client view of the merged
// configuration. fs may be nil when no command line is involved.
func GetClientConfig(fs *pflag.FlagSet) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(fs, ClientDefaults)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			LogFile:  cfg.App.LogFile,
			LogLevel: cfg.App.LogLevel,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Sync:    ClientSync{MaxReplayAttempts: cfg.Sync.MaxReplayAttempts},
		Workers: ClientWorkers{ProbeInterval: cfg.Workers.ProbeInterval},
	}

	return clientCfg, clientCfg.validate()
}
