package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/cwbudde/jsvm/cmd/jsvm/cmd"
)

// TestMain lets testscript re-exec this test binary as the `jsvm` command
// whenever a script's `exec jsvm ...` line runs, so the CLI integration
// tests below drive the real cobra command tree rather than a stand-in.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"jsvm": func() int {
			if err := cmd.Execute(); err != nil {
				return 1
			}
			return 0
		},
	}))
}

func TestCLI(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
