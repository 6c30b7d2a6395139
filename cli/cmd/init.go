package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Permission modes of the configuration directory and file. The file may
// hold the webhook URL.
const (
	defaultDirMode  os.FileMode = 0o700
	defaultFileMode os.FileMode = 0o600
)

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.Marshal(i.document(ctx))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	if err := os.MkdirAll(filepath.Dir(confPath), defaultDirMode); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	if err := os.WriteFile(confPath, data, defaultFileMode); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	diagFrom(ctx).LogAttrs(ctx, slog.LevelDebug,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// document returns the configuration document for the current flag values.
// Empty strings are left out so that their defaults keep applying.
func (i *Init) document(ctx context.Context) yaml.MapSlice {
	set := settings(kongContextFrom(ctx))
	doc := make(yaml.MapSlice, 0, len(set))

	for _, s := range set {
		if str, ok := s.value.(string); ok && str == "" {
			continue
		}

		doc = append(doc, yaml.MapItem{Key: s.name, Value: s.value})
	}

	return doc
}
