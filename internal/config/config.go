// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// client and the reference server. It is populated by merging environment
// variables, command-line flags, a JSON or YAML file and built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds logging settings.
	App App `envPrefix:"APP_"`

	// Storage holds the database connection settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the listen address and timeout of the reference server.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the address and timeout the client uses to reach the server.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds mutation queue replay settings.
	Sync Sync `envPrefix:"SYNC_"`

	// Workers holds configuration for background jobs.
	Workers Workers `envPrefix:"WORKERS_"`

	// FilePath is the optional path to a JSON or YAML configuration file.
	// Populated via the CONFIG environment variable or the -c / --config flag.
	FilePath string `env:"CONFIG"`
}

// App holds logging configuration.
type App struct {
	// LogFile is the path of the rotating client log file.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`

	// LogLevel is a zerolog level name (debug, info, warn, error).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// Storage groups the configuration for storage backends.
type Storage struct {
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is either a sqlite file path or a postgres:// URL (server only).
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address in "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds settings for outbound calls to the list service.
type Adapter struct {
	// HTTPAddress is the base URL of the list service. A missing scheme
	// defaults to http.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Sync holds replay settings of the mutation queue.
type Sync struct {
	// MaxReplayAttempts is the number of rejected replays after which an
	// operation is moved to the dead letters.
	// Env: SYNC_MAX_REPLAY_ATTEMPTS
	MaxReplayAttempts int `env:"MAX_REPLAY_ATTEMPTS"`
}

// Workers holds configuration for background jobs.
type Workers struct {
	// ProbeInterval is the period of the reachability probe. A negative
	// value disables the probe.
	// Env: WORKERS_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`
}
