package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/roster/internal/core"
)

// ErrInvalidRecords is returned by check when any record fails validation.
var ErrInvalidRecords = errors.New("file has invalid records")

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Validate a CSV file and list every invalid row",
		Long: `Validate a CSV file against the record rules, including NIC and
name uniqueness across the whole file. Exits with status 1 when any record
is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.loadFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			stats := st.Stats()
			fmt.Fprintf(out, "%d records: %d valid, %d invalid\n", stats.Total, stats.Valid, stats.Invalid)
			if !quiet {
				printInvalid(out, st.Records)
			}
			if stats.Invalid > 0 {
				return ErrInvalidRecords
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the summary line")
	return cmd
}

// printInvalid lists invalid records with their 1-based data row number.
func printInvalid(w io.Writer, records []core.Record) {
	for i, r := range records {
		if r.Valid() {
			continue
		}
		fmt.Fprintf(w, "row %d (NIC %q):\n", i+1, r.NIC)
		for _, f := range core.Fields {
			if msg, ok := r.Errors[f]; ok {
				fmt.Fprintf(w, "  %s: %s\n", f.Label(), msg)
			}
		}
	}
}
