// Package main provides the entry point for the appcommit CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/appcommit/internal/cli"
)

// Build-time version information, set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx := context.Background()
	info := cli.BuildInfo{Version: version, Commit: commit, Date: date}
	if err := cli.Execute(ctx, info); err != nil {
		os.Exit(1)
	}
}
