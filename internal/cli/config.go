package cli

import (
	"fmt"

	"github.com/imgajeed76/datagrid/internal/config"
	"github.com/imgajeed76/datagrid/internal/ui/styles"
	"github.com/imgajeed76/datagrid/internal/util"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <key> [value]",
		Short: "Get and set editor options",
		Long: `Get and set the global editor configuration.

The file lives at $XDG_CONFIG_HOME/datagrid/config.toml (or the platform
equivalent); DATAGRID_CONFIG overrides the path.

Options:
` + config.GenerateHelpText() + `

Examples:
  datagrid config keys.next_cell              # Get value
  datagrid config keys.next_cell "right,l"    # Set value
  datagrid config paste.strip_cr false        # Keep carriage returns
  datagrid config --list                      # List all config`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return config.ListKeys(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: runConfig,
	}

	cmd.Flags().BoolP("list", "l", false, "List all configuration")

	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	listAll, _ := cmd.Flags().GetBool("list")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if listAll {
		for _, key := range config.ListKeys() {
			value, _ := cfg.GetValue(key)
			fmt.Printf("%s=%s\n", key, value)
		}
		return nil
	}

	switch len(args) {
	case 0:
		return util.MissingArgumentError("key", "datagrid config keys.next_cell")
	case 1:
		// Get value
		value, ok := cfg.GetValue(args[0])
		if !ok {
			return unknownKeyError(args[0])
		}
		fmt.Println(value)
		return nil
	case 2:
	default:
		return util.TooManyArgumentsError(2, len(args))
	}

	// Set value
	if err := cfg.SetValue(args[0], args[1]); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Println(styles.SuccessMsg(fmt.Sprintf("Set %s", args[0])))
	return nil
}

func unknownKeyError(key string) *util.Error {
	return util.NewError(fmt.Sprintf("Unknown config key: %s", key)).
		WithSuggestion("datagrid config --list   # Show all keys")
}
