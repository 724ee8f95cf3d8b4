package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the global datagrid settings stored in the user's
// config directory
type Config struct {
	Keys    KeysConfig    `toml:"keys"`
	Paste   PasteConfig   `toml:"paste"`
	Display DisplayConfig `toml:"display"`
}

// KeysConfig holds the navigation bindings. Each value is a comma
// separated list of key names as bubbletea spells them ("right", "ctrl+l").
type KeysConfig struct {
	NextCell      string `toml:"next_cell" config:"keys.next_cell" default:"right" desc:"Move to the same field in the next cell"`
	PreviousCell  string `toml:"previous_cell" config:"keys.previous_cell" default:"left" desc:"Move to the same field in the previous cell"`
	NextRow       string `toml:"next_row" config:"keys.next_row" default:"down" desc:"Move to the same field in the next row"`
	PreviousRow   string `toml:"previous_row" config:"keys.previous_row" default:"up" desc:"Move to the same field in the previous row"`
	NextField     string `toml:"next_field" config:"keys.next_field" default:"tab" desc:"Cycle to the next field of a cell"`
	PreviousField string `toml:"previous_field" config:"keys.previous_field" default:"shift+tab" desc:"Cycle to the previous field of a cell"`
}

// PasteConfig controls how clipboard text is cut into rows
type PasteConfig struct {
	StripCR           bool `toml:"strip_cr" config:"paste.strip_cr" default:"true" desc:"Remove carriage returns at line ends"`
	DropTrailingEmpty bool `toml:"drop_trailing_empty" config:"paste.drop_trailing_empty" default:"true" desc:"Ignore the empty line after a final line break"`
}

// DisplayConfig contains layout settings of the grid view
type DisplayConfig struct {
	ColWidth int `toml:"col_width" config:"display.col_width" default:"20" min:"3" max:"200" desc:"Maximum column width in characters"`
}

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	return &Config{
		Keys: KeysConfig{
			NextCell:      "right",
			PreviousCell:  "left",
			NextRow:       "down",
			PreviousRow:   "up",
			NextField:     "tab",
			PreviousField: "shift+tab",
		},
		Paste: PasteConfig{
			StripCR:           true,
			DropTrailingEmpty: true,
		},
		Display: DisplayConfig{
			ColWidth: 20,
		},
	}
}

// Path returns the path to the config file.
// DATAGRID_CONFIG overrides it; otherwise it follows the XDG Base Directory
// spec on Linux and platform conventions elsewhere.
func Path() string {
	if p := os.Getenv("DATAGRID_CONFIG"); p != "" {
		return p
	}

	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, "Library", "Application Support", "datagrid")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "datagrid")
	default: // Linux and others - follow XDG
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			configDir = filepath.Join(xdg, "datagrid")
		} else {
			home, _ := os.UserHomeDir()
			configDir = filepath.Join(home, ".config", "datagrid")
		}
	}

	return filepath.Join(configDir, "config.toml")
}

// Load reads the config file, falling back to defaults if it doesn't exist
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the config file at path. Missing values keep their
// defaults.
func LoadFile(path string) (*Config, error) {
	// Start with defaults; the decoder only overwrites keys present in the file
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults for values that were present but blank
	defaults := DefaultConfig()

	if cfg.Keys.NextCell == "" {
		cfg.Keys.NextCell = defaults.Keys.NextCell
	}
	if cfg.Keys.PreviousCell == "" {
		cfg.Keys.PreviousCell = defaults.Keys.PreviousCell
	}
	if cfg.Keys.NextRow == "" {
		cfg.Keys.NextRow = defaults.Keys.NextRow
	}
	if cfg.Keys.PreviousRow == "" {
		cfg.Keys.PreviousRow = defaults.Keys.PreviousRow
	}
	if cfg.Keys.NextField == "" {
		cfg.Keys.NextField = defaults.Keys.NextField
	}
	if cfg.Keys.PreviousField == "" {
		cfg.Keys.PreviousField = defaults.Keys.PreviousField
	}
	// NOTE: paste flags are not defaulted here because false is a valid value.
	if cfg.Display.ColWidth == 0 {
		cfg.Display.ColWidth = defaults.Display.ColWidth
	}

	return cfg, nil
}

// Save writes the config file
func (c *Config) Save() error {
	return c.SaveFile(Path())
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// GetValue returns a config value by key (uses reflection)
func (c *Config) GetValue(key string) (string, bool) {
	return getFieldValue(c, key)
}

// SetValue sets a config value by key (uses reflection with validation)
func (c *Config) SetValue(key, value string) error {
	return setFieldValue(c, key, value)
}
