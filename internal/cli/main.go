// Package cli implements the memfinder command tree.
package cli

import (
	"fmt"
	"io"
	"os"
)

// MainWithArgs is a testable variant of Main that accepts args explicitly.
// It returns an exit code (0 for success, non-zero on error).
func MainWithArgs(args []string) int {
	return run(args, os.Stdout, os.Stderr, os.Getenv)
}

// Main returns an exit code for use by cmd/memfinder.
func Main() int { return MainWithArgs(os.Args[1:]) }

func run(args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	root := buildRootCmdWith(&Flags{EnvFile: ".env", Getenv: getenv})
	root.SetOut(stdout)
	root.SetErr(stderr)
	if len(args) == 0 {
		_ = root.Usage()
		return 2
	}
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	return 0
}
