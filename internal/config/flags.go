package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

// Flag names shared by the client and server command lines.
const (
	FlagAddress           = "address"
	FlagServer            = "server"
	FlagDatabase          = "database"
	FlagConfig            = "config"
	FlagRequestTimeout    = "request-timeout"
	FlagLogFile           = "log-file"
	FlagLogLevel          = "log-level"
	FlagMaxReplayAttempts = "max-replay-attempts"
	FlagProbeInterval     = "probe-interval"
)

// NetAddress holds structured network address data for host and port.
// It implements the pflag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// BindFlags registers every configuration flag on fs. Only flags the user
// actually set take part in the merge, so defaults registered here never
// shadow the environment or the config file.
//
// Flags:
//
//	-a, --address              server listen address host:port
//	-s, --server               list service base URL used by the client
//	-d, --database             database DSN
//	-c, --config               JSON or YAML config file path
//	    --request-timeout      request timeout (e.g. "5s")
//	    --log-file             client log file
//	    --log-level            log level
//	    --max-replay-attempts  rejected replays before dead-lettering
//	    --probe-interval       reachability probe period
func BindFlags(fs *pflag.FlagSet) {
	fs.VarP(&NetAddress{}, FlagAddress, "a", "Net address host:port")
	fs.StringP(FlagServer, "s", "", "List service base URL")
	fs.StringP(FlagDatabase, "d", "", "Database DSN")
	fs.StringP(FlagConfig, "c", "", "JSON or YAML config file path")
	fs.Duration(FlagRequestTimeout, 0, "Request timeout (e.g., 5s, 1m)")
	fs.String(FlagLogFile, "", "Log file path")
	fs.String(FlagLogLevel, "", "Log level (debug, info, warn, error)")
	fs.Int(FlagMaxReplayAttempts, 0, "Rejected replays before an operation is dead-lettered")
	fs.Duration(FlagProbeInterval, 0, "Reachability probe interval, negative disables it")
}

// parseFlags reads the flags that were explicitly set on fs.
func parseFlags(fs *pflag.FlagSet) (*StructuredConfig, error) {
	cfg := &StructuredConfig{}
	var errs []error

	changed := func(name string) bool {
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}
	str := func(name string, dst *string) {
		if !changed(name) {
			return
		}
		v, err := fs.GetString(name)
		errs = append(errs, err)
		*dst = v
	}
	dur := func(name string, dst ...*time.Duration) {
		if !changed(name) {
			return
		}
		v, err := fs.GetDuration(name)
		errs = append(errs, err)
		for _, d := range dst {
			*d = v
		}
	}

	if changed(FlagAddress) {
		cfg.Server.HTTPAddress = fs.Lookup(FlagAddress).Value.String()
	}
	str(FlagServer, &cfg.Adapter.HTTPAddress)
	str(FlagDatabase, &cfg.Storage.DB.DSN)
	str(FlagConfig, &cfg.FilePath)
	str(FlagLogFile, &cfg.App.LogFile)
	str(FlagLogLevel, &cfg.App.LogLevel)
	dur(FlagRequestTimeout, &cfg.Server.RequestTimeout, &cfg.Adapter.RequestTimeout)
	dur(FlagProbeInterval, &cfg.Workers.ProbeInterval)

	if changed(FlagMaxReplayAttempts) {
		v, err := fs.GetInt(FlagMaxReplayAttempts)
		errs = append(errs, err)
		cfg.Sync.MaxReplayAttempts = v
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("error reading flags: %w", err)
	}

	return cfg, nil
}

// String returns a canonical host:port string for a NetAddress.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses the input string of form host:port and populates the NetAddress.
// An empty host means all interfaces; any other host must be "localhost" or
// a valid IP address.
func (a *NetAddress) Set(s string) error {
	host, rawPort, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be between 1 and 65535")
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "host:port"
}
