// Package cmd holds the roster command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/ingest"
	"github.com/JonMunkholm/roster/internal/logging"
)

type rootOptions struct {
	logLevel   string
	logFile    string
	maxRecords int

	logger  *slog.Logger
	closers []io.Closer
}

// ExecuteContext runs the roster command line with ctx, so an interrupt
// cancels long-running commands.
func ExecuteContext(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "roster",
		Short: "Validate and edit person records in CSV files",
		Long: `roster loads a CSV of person records (NIC, first name, last name,
gender, age), validates every row against the whole file, and lets you fix
errors in a terminal editor before adding the records to the database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setupLogging(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			for _, c := range opts.closers {
				c.Close()
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of stderr")
	root.PersistentFlags().IntVar(&opts.maxRecords, "max-records", ingest.DefaultMaxRecords, "maximum rows read from one file")

	root.AddCommand(
		newCheckCmd(opts),
		newExportCmd(opts),
		newTUICmd(opts),
	)
	return root
}

func (o *rootOptions) setupLogging(cmd *cobra.Command) error {
	var w io.Writer = cmd.ErrOrStderr()
	if o.logFile != "" {
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		o.closers = append(o.closers, f)
		w = f
	}
	o.logger = logging.New(w, o.logLevel, "text")
	return nil
}

// loadFile parses path and runs the LOAD action over the records.
func (o *rootOptions) loadFile(path string) (core.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.State{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := ingest.NewParser(ingest.Options{MaxRecords: o.maxRecords}).Parse(f)
	if err != nil {
		return core.State{}, fmt.Errorf("load %s: %w", path, err)
	}

	st := core.Reduce(core.NewState(), core.Load{Records: records})
	o.logger.Info("file loaded", "file", path, "records", len(records), "invalid", st.Stats().Invalid)
	return st, nil
}
