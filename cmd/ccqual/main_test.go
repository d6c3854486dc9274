package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain registers this binary's own run() as a testscript command
// named "ccqual": a subprocess harness whose commands call back into
// the real process argument-parsing and exit-code path rather than a
// hand-rolled exec.Command harness.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"ccqual": runMain,
	}))
}

func runMain() int {
	return run(os.Args[1:])
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
