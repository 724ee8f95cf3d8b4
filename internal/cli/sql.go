package cli

import (
	"context"
	"os"
	"time"

	"github.com/imgajeed76/datagrid/internal/db"
	"github.com/imgajeed76/datagrid/internal/ui"
	"github.com/imgajeed76/datagrid/internal/util"
	"github.com/spf13/cobra"
)

func newSQLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sql <query>",
		Short: "Load the result of a PostgreSQL query into the grid",
		Long: `Run a read-only query and load the result set into the grid editor.

Only SELECT, WITH, VALUES, TABLE, SHOW and EXPLAIN statements are
accepted, and the connection itself is read-only. Edits stay in the
editor; use --json, --raw or -o to take them elsewhere.

The connection URL comes from --url, or DATAGRID_DATABASE_URL, or
DATABASE_URL.

Examples:
  datagrid sql "SELECT * FROM users" --url postgres://localhost/app
  datagrid sql "SELECT team, name FROM users" --group-by team
  datagrid sql "SELECT * FROM users" -o users.csv`,
		Args: func(cmd *cobra.Command, args []string) error {
			switch {
			case len(args) == 0:
				return util.MissingArgumentError("query", `datagrid sql "SELECT * FROM users"`)
			case len(args) > 1:
				return util.TooManyArgumentsError(1, len(args))
			}
			return nil
		},
		RunE: runSQL,
	}

	cmd.Flags().String("url", "", "PostgreSQL connection URL")
	cmd.Flags().Int("timeout", 60, "Query timeout in seconds")
	addSessionFlags(cmd, false)

	return cmd
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := args[0]
	opts := readSessionOptions(cmd)
	timeout, _ := cmd.Flags().GetInt("timeout")

	url := databaseURL(cmd)
	if url == "" {
		return util.NewError("No database URL").
			WithMessage("datagrid sql needs a PostgreSQL connection URL").
			WithSuggestions(
				`datagrid sql --url postgres://user@localhost/app "SELECT 1"`,
				"export DATAGRID_DATABASE_URL=postgres://user@localhost/app",
			)
	}

	// Reject writes before connecting
	if !db.IsReadOnly(query) {
		return util.WriteQueryError(query)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	spinner := ui.NewSpinner("Running query")
	spinner.Start()

	conn, err := db.Connect(ctx, url)
	if err != nil {
		spinner.Stop()
		return err
	}
	defer conn.Close()

	ds, err := conn.Query(ctx, query, opts.Load.GroupBy)
	if err != nil {
		spinner.Error("Query failed")
		return err
	}
	spinner.Stop()

	return runSession(ds, opts)
}

func databaseURL(cmd *cobra.Command) string {
	if url, _ := cmd.Flags().GetString("url"); url != "" {
		return url
	}
	if url := os.Getenv("DATAGRID_DATABASE_URL"); url != "" {
		return url
	}
	return os.Getenv("DATABASE_URL")
}
