package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/ingest"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		output    string
		validOnly bool
	)

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Rewrite a CSV file in canonical column order",
		Long: `Load a CSV file, normalize its header, and write the records back out
with the canonical columns. Use --valid-only to drop records that fail
validation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.loadFile(args[0])
			if err != nil {
				return err
			}

			records := st.Records
			if validOnly {
				records = filterValid(records)
			}

			if output == "" || output == "-" {
				return ingest.Export(cmd.OutOrStdout(), records)
			}
			if err := writeFile(output, records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d records to %s\n", len(records), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&validOnly, "valid-only", false, "write only valid records")
	return cmd
}

func writeFile(path string, records []core.Record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return ingest.Export(io.Writer(f), records)
}

func filterValid(records []core.Record) []core.Record {
	out := make([]core.Record, 0, len(records))
	for _, r := range records {
		if r.Valid() {
			out = append(out, r)
		}
	}
	return out
}
