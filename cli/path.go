package cli

import (
	"path/filepath"

	"github.com/ardnew/logchan/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config"

// configPath returns the absolute path to a file or directory formed by joining
// the global configuration directory path with the given path elements.
//
// If no elements are given, it is equivalent to calling [pkg.ConfigDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// configFiles returns the candidate configuration files, most preferred
// first. Missing files are ignored by Kong.
func configFiles() []string {
	return []string{
		configPath(baseConfig + ".yaml"),
		configPath(baseConfig + ".yml"),
	}
}
