// Command pathway inspects and validates YAML definition configs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pathway",
		Short: "Inspect and validate pathway definition configs",
		Long: `pathway checks YAML definition configs before they are loaded by an
application: it parses them, resolves every plugin through the built-in
registry and reports the resulting definition settings.`,
		Version:      version,
		SilenceUsage: true,
	}

	// Disable default completion command
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(newPluginsCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newInspectCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
