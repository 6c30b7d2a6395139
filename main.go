package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/logchan/cli"
	"github.com/ardnew/logchan/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		log.NewDiagnostic(os.Stderr, nil).Error(
			"run failed",
			slog.Any("error", err),
		) // slog automatically uses LogValue()
		os.Exit(1)
	}
}
