package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"olympiad.xdoubleu.com/apps/olympiad"
	"olympiad.xdoubleu.com/internal/config"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type options struct {
	sources string
	format  string
	verbose bool
}

// NewRootCmd builds olympctl, a tool to inspect what the portal would show
// without running the server.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "olympctl",
		Short:         "Inspect olympiad news, calendar and date extraction",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			format := strings.ToLower(opts.format)
			if format != formatText && format != formatJSON {
				return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", opts.format)
			}
			opts.format = format
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(
		&opts.sources, "sources", "", "YAML sources file, the embedded catalog when empty",
	)
	cmd.PersistentFlags().StringVar(&opts.format, "format", formatText, "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Log fetch failures to stderr")

	cmd.AddCommand(
		newNewsCmd(opts),
		newCalendarCmd(opts),
		newICSCmd(opts),
		newSourcesCmd(opts),
		newExtractCmd(opts),
	)

	return cmd
}

func (opts *options) portal() (*olympiad.Portal, error) {
	level := slog.LevelError
	if opts.verbose {
		level = slog.LevelDebug
	}

	//nolint:exhaustruct //other fields are optional
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.New(logger)
	if opts.sources != "" {
		cfg.SourcesFile = opts.sources
	}

	return olympiad.NewPortal(logger, cfg)
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
