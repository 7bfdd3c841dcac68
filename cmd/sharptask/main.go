// Package main provides sharptask, a synchronizer between markdown checkbox
// task lines and a taskchampion-compatible task database.
package main

import (
	"os"
	"strings"

	"sharptask/internal/cli"
)

func main() {
	environ := os.Environ()
	env := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	exitCode := cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args, env)

	os.Exit(exitCode)
}
