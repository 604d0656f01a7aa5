package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "jsvm",
	Short: "A tree-walking JavaScript engine",
	Long: `jsvm is a Go implementation of a JavaScript subset: async/await,
generators, Promises, classes, destructuring, and the handful of standard
built-ins (Math, JSON, Date, Array/String prototypes, RegExp, Symbol,
Promise) a host embedding this engine is expected to rely on.

It has no module loader, no DOM, and no console: it is a library engine
first, driven here through a thin CLI for running and inspecting scripts.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
