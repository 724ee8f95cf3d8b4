package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/imgajeed76/datagrid/internal/config"
	"github.com/imgajeed76/datagrid/internal/dataset"
	"github.com/imgajeed76/datagrid/internal/ui/gridview"
	"github.com/imgajeed76/datagrid/internal/ui/styles"
	"github.com/spf13/cobra"
)

// sessionOptions holds the output flags shared by edit and sql.
type sessionOptions struct {
	JSON     bool
	Raw      bool
	NoPager  bool
	Diff     bool
	Write    bool
	Force    bool
	Verbose  bool
	Output   string
	DebugLog string
	Load     dataset.LoadOptions
}

// addSessionFlags registers the output flags. Sources that cannot be
// written back do not get --write and --force.
func addSessionFlags(cmd *cobra.Command, writable bool) {
	cmd.Flags().String("group-by", "", "Group rows by the values of this column")
	cmd.Flags().Bool("json", false, "Output rows as JSON array")
	cmd.Flags().Bool("raw", false, "Output raw tab-separated values without a header (for piping)")
	cmd.Flags().Bool("no-pager", false, "Disable the interactive editor")
	cmd.Flags().Bool("diff", false, "Show a diff of your edits after saving")
	cmd.Flags().StringP("output", "o", "", "Write the edited rows to this file (format by extension)")
	cmd.Flags().String("debug-log", "", "Write editor diagnostics to this file")
	if writable {
		cmd.Flags().BoolP("write", "w", false, "Write the edits back to the file on save")
		cmd.Flags().Bool("force", false, "With --write, keep your version of lines that also changed on disk")
	}
}

func readSessionOptions(cmd *cobra.Command) sessionOptions {
	var opts sessionOptions
	opts.JSON, _ = cmd.Flags().GetBool("json")
	opts.Raw, _ = cmd.Flags().GetBool("raw")
	opts.NoPager, _ = cmd.Flags().GetBool("no-pager")
	opts.Diff, _ = cmd.Flags().GetBool("diff")
	opts.Write, _ = cmd.Flags().GetBool("write")
	opts.Force, _ = cmd.Flags().GetBool("force")
	opts.Verbose, _ = cmd.Flags().GetBool("verbose")
	opts.Output, _ = cmd.Flags().GetString("output")
	opts.DebugLog, _ = cmd.Flags().GetString("debug-log")
	opts.Load.GroupBy, _ = cmd.Flags().GetString("group-by")
	return opts
}

func (o sessionOptions) mode() gridview.OutputMode {
	switch {
	case o.JSON:
		return gridview.OutputJSON
	case o.Raw:
		return gridview.OutputRaw
	}
	return gridview.OutputPlain
}

// editorOptions applies the global config to the editor.
func editorOptions(debugLog string) (gridview.Options, error) {
	cfg, err := config.Load()
	if err != nil {
		return gridview.Options{}, fmt.Errorf("failed to load config %s: %w", config.Path(), err)
	}

	opts := gridview.DefaultOptions()
	opts.Keys = cfg.KeyMap()
	opts.Paste = cfg.PasteOptions()
	opts.ColWidth = cfg.Display.ColWidth
	opts.DebugLog = debugLog
	return opts, nil
}

// runSession shows ds in the editor and handles the result. Without a
// terminal, or with --no-pager, the rows are printed instead.
func runSession(ds *dataset.Dataset, opts sessionOptions) error {
	if opts.Verbose {
		fmt.Fprintln(os.Stderr, styles.MutedMsg(fmt.Sprintf("Loaded %d rows, %d columns (%s)", len(ds.Rows()), len(ds.Columns), ds.Format)))
	}

	if !gridview.Interactive(opts.NoPager) || ds.Root.Empty() {
		return gridview.Print(os.Stdout, ds, opts.mode())
	}

	editor, err := editorOptions(opts.DebugLog)
	if err != nil {
		return err
	}

	// Taken before editing: the diff and the merge on --write compare
	// against these
	before := ds.TSV()
	var base string
	if opts.Write {
		if base, err = ds.Snapshot(); err != nil {
			return err
		}
	}

	result, err := gridview.Run(ds, editor)
	if err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}

	if result == gridview.ResultDiscard {
		if n := len(ds.Changes()); n > 0 {
			fmt.Fprintln(os.Stderr, styles.MutedMsg(fmt.Sprintf("Discarded %d changes", n)))
		}
		return nil
	}

	return finishSession(os.Stdout, ds, opts, before, base)
}

// finishSession reports and exports a saved session.
func finishSession(w io.Writer, ds *dataset.Dataset, opts sessionOptions, before, base string) error {
	changes := ds.Changes()

	if opts.Diff {
		for _, line := range dataset.DiffLines(before, ds.TSV(), 3) {
			fmt.Fprintln(w, styles.DiffLine(line.String()))
		}
	} else if !opts.JSON && !opts.Raw {
		printChanges(w, ds, changes)
	}

	if opts.Output != "" {
		if err := writeOutput(ds, opts.Output); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, styles.SuccessMsg("Wrote "+opts.Output))
	}

	if opts.Write && len(changes) > 0 {
		merged, err := ds.Save(base, opts.Load, opts.Force)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, styles.SuccessMsg(fmt.Sprintf("Saved %d changes to %s", len(changes), ds.Path)))
		if n := len(merged.Conflicts); n > 0 {
			fmt.Fprintln(os.Stderr, styles.WarningMsg(fmt.Sprintf("Kept your version of %d regions also changed on disk", n)))
		}
	}

	if opts.JSON || opts.Raw {
		return gridview.Print(w, ds, opts.mode())
	}
	return nil
}

// writeOutput writes ds to path in the format its extension names.
func writeOutput(ds *dataset.Dataset, path string) error {
	format, err := dataset.FormatOf(path)
	if err != nil {
		return err
	}

	own := ds.Format
	ds.Format = format
	defer func() { ds.Format = own }()

	return ds.WriteFile(path)
}

// printChanges lists the edited fields, one per line.
func printChanges(w io.Writer, ds *dataset.Dataset, changes []dataset.Change) {
	if len(changes) == 0 {
		fmt.Fprintln(w, styles.MutedMsg("No changes"))
		return
	}

	index := make(map[*dataset.Row]int, len(ds.Rows()))
	for i, row := range ds.Rows() {
		index[row] = i + 1
	}

	fmt.Fprintln(w, styles.SectionHeader(fmt.Sprintf("%d changes", len(changes))))
	for _, c := range changes {
		where := c.Row.Label
		if where == "" {
			where = fmt.Sprintf("row %d", index[c.Row])
		}
		column := c.Column
		if c.Target != "0" {
			column += "." + c.Target
		}
		fmt.Fprintf(w, "  %s  %s: %s %s %s\n",
			styles.Boldf("%s", where), column,
			styles.Red(quoteEmpty(c.Old)), styles.SymbolArrow, styles.Green(quoteEmpty(c.New)))
	}
}

func quoteEmpty(s string) string {
	if s == "" {
		return `""`
	}
	return s
}
