package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/jsvm/engine"
	"github.com/cwbudde/jsvm/internal/runtime"
)

var (
	evalExpr string
	syncEval bool
	trace    bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a JavaScript file or expression",
	Long: `Execute a JavaScript program from a file or inline expression.

Examples:
  # Run a script file
  jsvm run script.js

  # Evaluate an inline expression
  jsvm run -e "1 + 2"

  # Evaluate synchronously, failing if the program suspends
  jsvm run --sync script.js

  # Print __debug() checkpoints as they fire
  jsvm run --trace script.js`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&syncEval, "sync", false, "evaluate synchronously (fails if the program suspends)")
	runCmd.Flags().BoolVar(&trace, "trace", false, "print __debug() checkpoints as they fire")
}

func runScript(_ *cobra.Command, args []string) error {
	var input, filename string
	switch {
	case evalExpr != "":
		input, filename = evalExpr, "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		input = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e flag for inline code")
	}

	eng := engine.New()
	defer eng.Dispose()

	var res engine.Result
	if syncEval {
		res = eng.EvalSync(input, filename)
	} else {
		res = eng.Eval(input, filename)
	}

	if trace {
		drainDebug(eng)
	}

	if res.Err != nil {
		fmt.Fprintln(os.Stderr, res.Err.Error())
		return fmt.Errorf("%s", string(res.Err.Kind))
	}
	if verbose {
		fmt.Println(runtime.Inspect(res.Value))
	}
	return nil
}

// drainDebug prints every debug message queued so far without blocking on
// further ones, since the evaluation that could still enqueue them has
// already returned by the time run calls this.
func drainDebug(eng *engine.Engine) {
	for {
		msg, ok := eng.TryReadDebug()
		if !ok {
			return
		}
		fmt.Fprintf(os.Stderr, "[debug %s] %s\n", msg.Origin, msg.State)
	}
}
