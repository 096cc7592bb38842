package main

import (
	"fmt"
	"os"

	"diffstack.dev/diffstack/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cli.NewRootCmd(version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "diffstack: %v\n", err)
		os.Exit(1)
	}
}
