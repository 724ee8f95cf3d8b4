package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/imgajeed76/datagrid/internal/merge"
	"github.com/imgajeed76/datagrid/internal/util"
)

// Snapshot encodes the dataset in its own format. A snapshot taken right
// after loading is the base a later Save merges against.
func (d *Dataset) Snapshot() (string, error) {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Save writes the dataset back to its file. base is the snapshot taken
// when the file was loaded. Changes made to the file on disk since then
// are merged in line by line. Lines changed on both sides fail the save
// with a conflict error unless force is set, in which case our version of
// them is written.
func (d *Dataset) Save(base string, opts LoadOptions, force bool) (*merge.Result, error) {
	if d.Path == "" {
		return nil, fmt.Errorf("%w: no file", util.ErrReadOnlySource)
	}
	ours, err := d.Snapshot()
	if err != nil {
		return nil, err
	}

	theirs, err := d.diskSnapshot(opts)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Removed while open: write it again
		theirs = base
	case err != nil && force:
		theirs = base
	case err != nil:
		return nil, err
	}

	result := merge.ThreeWay(base, ours, theirs)
	if !result.Clean() && !force {
		lines := make([]int, len(result.Conflicts))
		for i, c := range result.Conflicts {
			lines[i] = c.Line
		}
		return result, util.SaveConflictError(d.Path, lines)
	}

	if err := os.WriteFile(d.Path, []byte(result.Text()), 0o644); err != nil {
		return result, fmt.Errorf("failed to write %s: %w", d.Path, err)
	}
	d.MarkSaved()
	return result, nil
}

// diskSnapshot re-reads the dataset's file and encodes it the way
// Snapshot does, so both sides of a merge share one layout.
func (d *Dataset) diskSnapshot(opts LoadOptions) (string, error) {
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", d.Path, err)
	}

	disk, err := Parse(util.ToValidUTF8Bytes(data), d.Format, opts)
	if err != nil {
		return "", util.DatasetParseError(d.Path, err)
	}
	return disk.Snapshot()
}
