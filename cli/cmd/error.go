package cmd

import "github.com/ardnew/logchan/pkg"

var (
	ErrInvalidData  = pkg.NewError("invalid record data (expected key=value)")
	ErrJSONMarshal  = pkg.NewError("marshal JSON")
	ErrYAMLMarshal  = pkg.NewError("marshal YAML")
	ErrWriteConfig  = pkg.NewError("write configuration file")
	ErrFileExists   = pkg.NewError("file exists (use --force to overwrite)")
	ErrNoWebhook    = pkg.NewError("no Slack webhook configured")
	ErrInvalidRoute = pkg.NewError("invalid Slack route (expected auto, always or never)")
)
