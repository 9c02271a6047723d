// Package main provides the kdd binary entry point: a thin cobra CLI
// over the container/indexer/query packages, following the root-command
// / subcommand / panic-recovery structure of cmd/semspec/main.go.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

const (
	version = "0.1.0"
	appName = "kdd"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cliFlags are the persistent flags shared by every subcommand.
type cliFlags struct {
	specsPath string
	indexPath string
	logLevel  string
}

func rootCmd() *cobra.Command {
	flags := &cliFlags{}

	cmd := &cobra.Command{
		Use:     appName,
		Short:   "Knowledge-driven-development index and query engine",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(flags.logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.specsPath, "specs-path", "", "specification root directory (default: $KDD_SPECS_PATH or \"specs\")")
	cmd.PersistentFlags().StringVar(&flags.indexPath, "index-path", "", "index artifact directory (default: $KDD_INDEX_PATH or \".kdd-index\")")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		indexCmd(flags),
		searchCmd(flags),
		graphCmd(flags),
		impactCmd(flags),
		semanticCmd(flags),
		coverageCmd(flags),
		violationsCmd(flags),
	)

	return cmd
}

func configureLogging(level string) {
	l := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}
