// ecleak is a command line frontend for the scalar multiplication and
// RPA analysis library: list curves, run configured multipliers with
// tracing, and run the distinguisher self-test.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "ecleak",
		Short:         "Elliptic curve scalar multiplication leakage toolbox",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(curvesCommand())
	root.AddCommand(multiplyCommand())
	root.AddCommand(distinguishCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
