package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sigcat",
	Short: "Sigcat - public API signature cataloger for Rust math libraries",
	Long: `Sigcat extracts, validates, and catalogs the public function signatures
of a numerical library's Rust source tree.

The resulting catalog is a canonical, ordered list of validated signatures
for consumption by code generators: benchmark harnesses, conformance-test
generators, and binding generators.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.sigcat.yaml)")
}
