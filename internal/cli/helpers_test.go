package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/imgajeed76/datagrid/internal/dataset"
	"github.com/imgajeed76/datagrid/internal/ui/styles"
)

func editedDataset(t *testing.T) (*dataset.Dataset, string, string) {
	t.Helper()
	styles.SetNoColor(true)
	t.Cleanup(func() { styles.SetNoColor(false) })

	path := filepath.Join(t.TempDir(), "data.tsv")
	if err := os.WriteFile(path, []byte("a\tb\n1\t2\n3\t4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	ds, err := dataset.LoadFile(path, dataset.LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	base, err := ds.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	before := ds.TSV()

	ds.Rows()[0].Cell("b").Fields[0].Value = "X"
	return ds, before, base
}

func TestFinishSession_SummaryAndWrite(t *testing.T) {
	ds, before, base := editedDataset(t)

	var buf bytes.Buffer
	if err := finishSession(&buf, ds, sessionOptions{Write: true}, before, base); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"1 changes", "row 1", "b: 2 → X"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary should contain %q:\n%s", want, out)
		}
	}

	data, err := os.ReadFile(ds.Path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a\tb\n1\tX\n3\t4\n" {
		t.Fatalf("file:\n%q", data)
	}
	if ds.Dirty() {
		t.Fatal("written dataset should not be dirty")
	}
}

func TestFinishSession_Diff(t *testing.T) {
	ds, before, base := editedDataset(t)

	var buf bytes.Buffer
	if err := finishSession(&buf, ds, sessionOptions{Diff: true}, before, base); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "-1\t2") || !strings.Contains(out, "+1\tX") {
		t.Fatalf("diff should show the edited row:\n%s", out)
	}
	if strings.Contains(out, "changes") {
		t.Fatal("--diff replaces the summary")
	}

	data, _ := os.ReadFile(ds.Path)
	if string(data) != "a\tb\n1\t2\n3\t4\n" {
		t.Fatal("without --write the file stays untouched")
	}
}

func TestFinishSession_JSON(t *testing.T) {
	ds, before, base := editedDataset(t)

	var buf bytes.Buffer
	if err := finishSession(&buf, ds, sessionOptions{JSON: true}, before, base); err != nil {
		t.Fatal(err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("output should be JSON only: %v\n%s", err, buf.String())
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestWriteOutput_ConvertsFormat(t *testing.T) {
	ds, _, _ := editedDataset(t)
	path := filepath.Join(t.TempDir(), "out.csv")

	if err := writeOutput(ds, path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a,b\n1,X\n3,4\n" {
		t.Fatalf("csv:\n%q", data)
	}
	if ds.Format != dataset.FormatTSV {
		t.Fatal("the dataset keeps its own format")
	}

	if err := writeOutput(ds, filepath.Join(t.TempDir(), "out.xlsx")); err == nil {
		t.Fatal("unknown extensions should fail")
	}
}

func TestPrintChanges_None(t *testing.T) {
	styles.SetNoColor(true)
	t.Cleanup(func() { styles.SetNoColor(false) })

	ds, err := dataset.FromRecords("t", []string{"a"}, [][]string{{"1"}}, "")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	printChanges(&buf, ds, ds.Changes())
	if !strings.Contains(buf.String(), "No changes") {
		t.Fatalf("got %q", buf.String())
	}
}
