package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diegodhh/pathway"
)

func newPluginsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List the built-in plugins",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range pathway.DefaultRegistry.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config.yaml>...",
		Short: "Check that configs parse and their plugins resolve",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed int
			for _, path := range args {
				def, err := load(path)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s: %s [%s]\n", path, def.Name(), strings.Join(def.Plugins(), ", "))
				_ = def.Close() //nolint:errcheck
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d configs invalid", failed, len(args))
			}
			return nil
		},
	}
}

// inspection is the JSON report printed by inspect.
type inspection struct {
	Context   map[pathway.Key]any `json:"context,omitempty"`
	Name      pathway.Name        `json:"name"`
	ResultKey pathway.Key         `json:"result_key"`
	Plugins   []pathway.Name      `json:"plugins"`
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <config.yaml>",
		Short: "Print the definition settings a config produces",
		Long: `Print the definition settings a config produces, after plugin
installation. Installers may change the result key and context, so the
report can differ from the file itself.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := load(args[0])
			if err != nil {
				return err
			}
			defer def.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(inspection{
				Name:      def.Name(),
				ResultKey: def.ResultKey(),
				Context:   def.Context(),
				Plugins:   def.Plugins(),
			})
		},
	}
}

// load builds a step-less definition from the config at path.
func load(path string) (*pathway.Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := pathway.LoadConfig(f)
	if err != nil {
		return nil, err
	}
	return pathway.DefineFromConfig(cfg, nil, func(*pathway.Builder) {})
}
