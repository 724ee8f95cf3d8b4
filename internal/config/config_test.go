package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
)

func TestLoadFile_MissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[keys]\nnext_cell = \"l, ctrl+f\"\nprevious_cell = \"\"\n\n[paste]\nstrip_cr = false\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Keys.NextCell != "l, ctrl+f" {
		t.Fatalf("next_cell: %q", cfg.Keys.NextCell)
	}
	if cfg.Keys.PreviousCell != "left" {
		t.Fatalf("blank previous_cell should default, got %q", cfg.Keys.PreviousCell)
	}
	if cfg.Paste.StripCR || !cfg.Paste.DropTrailingEmpty {
		t.Fatalf("paste: %+v", cfg.Paste)
	}
	if cfg.Display.ColWidth != 20 {
		t.Fatalf("col_width: %d", cfg.Display.ColWidth)
	}
}

func TestSaveFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Display.ColWidth = 42
	cfg.Paste.DropTrailingEmpty = false

	if err := cfg.SaveFile(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded != *cfg {
		t.Fatalf("got %+v, want %+v", loaded, cfg)
	}
}

func TestPath_EnvOverride(t *testing.T) {
	t.Setenv("DATAGRID_CONFIG", "/tmp/custom.toml")
	if Path() != "/tmp/custom.toml" {
		t.Fatalf("got %q", Path())
	}
}

func TestGetSetValue(t *testing.T) {
	cfg := DefaultConfig()

	if v, ok := cfg.GetValue("paste.strip_cr"); !ok || v != "true" {
		t.Fatalf("paste.strip_cr: %q %v", v, ok)
	}
	if err := cfg.SetValue("paste.strip_cr", "false"); err != nil {
		t.Fatal(err)
	}
	if cfg.Paste.StripCR {
		t.Fatal("bool should be set")
	}

	if err := cfg.SetValue("display.width", "30"); err != nil {
		t.Fatal(err)
	}
	if v, _ := cfg.GetValue("display.col_width"); v != "30" {
		t.Fatalf("alias should set col_width, got %q", v)
	}

	if err := cfg.SetValue("keys.next_row", "j,down"); err != nil {
		t.Fatal(err)
	}
	if cfg.Keys.NextRow != "j,down" {
		t.Fatalf("next_row: %q", cfg.Keys.NextRow)
	}
}

func TestSetValue_Validation(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		key, value string
	}{
		{"display.col_width", "2"},
		{"display.col_width", "201"},
		{"display.col_width", "wide"},
		{"paste.strip_cr", "maybe"},
		{"keys.next_cell", " , "},
		{"keys.unknown", "x"},
		{"nosection", "x"},
	}
	for _, tc := range cases {
		if err := cfg.SetValue(tc.key, tc.value); err == nil {
			t.Fatalf("%s=%q should be rejected", tc.key, tc.value)
		}
	}
	if *cfg != *DefaultConfig() {
		t.Fatal("rejected values should not change the config")
	}
}

func TestListKeys(t *testing.T) {
	keys := ListKeys()
	for _, want := range []string{"display.col_width", "keys.next_cell", "paste.strip_cr"} {
		if !slices.Contains(keys, want) {
			t.Fatalf("missing %s in %v", want, keys)
		}
	}
	if !slices.IsSorted(keys) {
		t.Fatal("keys should be sorted")
	}
}

func TestKeyMap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Keys.NextCell = "l, ctrl+f"

	keys := cfg.KeyMap()
	if !key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")}, keys.NextCell) {
		t.Fatal("l should move to the next cell")
	}
	if !key.Matches(tea.KeyMsg{Type: tea.KeyCtrlF}, keys.NextCell) {
		t.Fatal("ctrl+f should move to the next cell")
	}
	if key.Matches(tea.KeyMsg{Type: tea.KeyRight}, keys.NextCell) {
		t.Fatal("the default key should be replaced")
	}
	if keys.NextCell.Help().Key != "l" {
		t.Fatalf("help key: %q", keys.NextCell.Help().Key)
	}
	if !key.Matches(tea.KeyMsg{Type: tea.KeyDown}, keys.NextRow) {
		t.Fatal("untouched bindings keep their defaults")
	}
}

func TestPasteOptions(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.PasteOptions().SplitRows("a\r\nb\r\n"); !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("defaults: %q", got)
	}

	cfg.Paste.StripCR = false
	if got := cfg.PasteOptions().SplitRows("a\r\nb\r\n"); !slices.Equal(got, []string{"a\r", "b\r"}) {
		t.Fatalf("keep CR: %q", got)
	}

	cfg.Paste.StripCR = true
	cfg.Paste.DropTrailingEmpty = false
	if got := cfg.PasteOptions().SplitRows("a\nb\n"); !slices.Equal(got, []string{"a", "b", ""}) {
		t.Fatalf("keep trailing: %q", got)
	}
}
