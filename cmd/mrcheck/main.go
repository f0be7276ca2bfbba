// Package main provides mrcheck, a runner for metamorphic relation suites
// over classic algorithms.
//
// The first SIGINT or SIGTERM stops a run between cases and still prints
// (and writes, with --report) what was checked. A second one exits at once.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/calvinalkan/mrsuite/internal/cli"
)

// exitInterrupted is the shell convention for death by SIGINT.
const exitInterrupted = 130

func main() {
	environ := os.Environ()
	env := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	cancelCh := make(chan os.Signal, 1)

	go func() {
		cancelCh <- <-sigCh

		<-sigCh
		fmt.Fprintln(os.Stderr, "mrcheck: interrupted twice, exiting")
		os.Exit(exitInterrupted)
	}()

	exitCode := cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args, env, cancelCh)

	os.Exit(exitCode)
}
