// Package cmd provides the logchan subcommands: send and burst write
// records to the configured channel, config and validate inspect it, and
// init writes a configuration file.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
