package main

import (
	"fmt"
	"os"

	"github.com/datatap/semquery/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands print their own formatted errors; the message here is
		// the terse fallback for flag and usage failures.
		if _, ok := err.(*cli.ExitError); !ok {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
