package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/roster/internal/application"
	"github.com/JonMunkholm/roster/internal/config"
	"github.com/JonMunkholm/roster/internal/session"
	"github.com/JonMunkholm/roster/internal/store"
)

func newTUICmd(opts *rootOptions) *cobra.Command {
	var exportPath string

	cmd := &cobra.Command{
		Use:   "tui FILE",
		Short: "Edit a CSV file in the terminal",
		Long: `Open a CSV file in the terminal editor. Records are revalidated on every
keystroke. Added records go to the database named by DATABASE_URL, or stay
in memory when it is unset.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			st, err := opts.loadFile(args[0])
			if err != nil {
				return err
			}

			sink, closeSink, err := store.Open(cmd.Context(), cfg.Database, opts.logger)
			if err != nil {
				return err
			}
			defer closeSink()

			ed := session.NewEditor(sink, opts.logger)
			ed.Load(st.Records)

			if exportPath == "" {
				exportPath = defaultExportPath(args[0])
			}
			return application.Run(cmd.Context(), ed, application.Options{
				Title:      filepath.Base(args[0]),
				ExportPath: exportPath,
			})
		},
	}

	cmd.Flags().StringVar(&exportPath, "export", "", "file written by the export key (default FILE-edited.csv)")
	return cmd
}

// defaultExportPath turns "people.csv" into "people-edited.csv".
func defaultExportPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-edited" + ext
}
