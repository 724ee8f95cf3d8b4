package cli

import (
	"github.com/imgajeed76/datagrid/internal/dataset"
	"github.com/imgajeed76/datagrid/internal/util"
	"github.com/spf13/cobra"
)

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Open a dataset, TSV or CSV file in the grid editor",
		Long: `Open a file in the interactive grid editor.

Supported files are TOML datasets (.toml), tab separated values (.tsv,
.tab, .txt) and comma separated values (.csv). The first line of a TSV or
CSV file names the columns.

ctrl+s saves and exits, esc exits without saving. Saving keeps the edits
in memory; use --write to write them back to the file. Changes made to the
file by someone else while it was open are merged in.

Examples:
  datagrid edit stock.tsv                    # Browse and edit
  datagrid edit stock.tsv --write            # Write edits back on save
  datagrid edit stock.csv --group-by team    # Group rows by a column
  datagrid edit stock.toml --diff            # Show what changed
  datagrid edit stock.csv -o stock.tsv       # Convert after editing`,
		Args: func(cmd *cobra.Command, args []string) error {
			switch {
			case len(args) == 0:
				return util.MissingArgumentError("file", "datagrid edit data.tsv")
			case len(args) > 1:
				return util.TooManyArgumentsError(1, len(args))
			}
			return nil
		},
		RunE: runEdit,
	}

	addSessionFlags(cmd, true)

	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
	opts := readSessionOptions(cmd)

	ds, err := dataset.LoadFile(args[0], opts.Load)
	if err != nil {
		return err
	}

	return runSession(ds, opts)
}
