package main

import (
	"fmt"
	"os"

	"github.com/hbjs97/pam-recent/internal/cli"
)

func main() {
	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pam-recent: %v\n", err)
		os.Exit(int(cli.MapExitCode(err)))
	}
}
