package config

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/imgajeed76/datagrid/internal/grid"
)

// SplitKeys splits a comma separated list of key names, dropping blanks.
func SplitKeys(value string) []string {
	var keys []string
	for _, k := range strings.Split(value, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// KeyMap builds the navigation bindings. The help text shows the first
// configured key of each binding.
func (c *Config) KeyMap() grid.KeyMap {
	keys := grid.DefaultKeyMap()
	rebind(&keys.NextCell, c.Keys.NextCell)
	rebind(&keys.PreviousCell, c.Keys.PreviousCell)
	rebind(&keys.NextRow, c.Keys.NextRow)
	rebind(&keys.PreviousRow, c.Keys.PreviousRow)
	rebind(&keys.NextField, c.Keys.NextField)
	rebind(&keys.PreviousField, c.Keys.PreviousField)
	return keys
}

func rebind(b *key.Binding, value string) {
	keys := SplitKeys(value)
	if len(keys) == 0 {
		return
	}
	b.SetKeys(keys...)
	b.SetHelp(keys[0], b.Help().Desc)
}

// PasteOptions builds the clipboard splitters.
func (c *Config) PasteOptions() grid.PasteOptions {
	opts := grid.DefaultPasteOptions()
	if c.Paste.StripCR && c.Paste.DropTrailingEmpty {
		return opts
	}

	stripCR, dropTrailing := c.Paste.StripCR, c.Paste.DropTrailingEmpty
	opts.SplitRows = func(text string) []string {
		lines := strings.Split(text, "\n")
		if dropTrailing && len(lines) > 1 && strings.TrimSuffix(lines[len(lines)-1], "\r") == "" {
			lines = lines[:len(lines)-1]
		}
		if stripCR {
			for i, line := range lines {
				lines[i] = strings.TrimSuffix(line, "\r")
			}
		}
		return lines
	}
	return opts
}
