// Package config provides configuration loading, merging, and validation
// facilities for the client and the reference server.
//
// Configuration is assembled from multiple sources in the following priority
// order (earlier sources win for every field they set):
//  1. Environment variables
//  2. Command-line flags that were explicitly set
//  3. JSON or YAML config file
//  4. Built-in defaults
//
// The main entry points are [GetClientConfig] and [GetServerConfig].
package config
