// Package main is the entry point for the gkeops CLI.
//
// gkeops provisions and tears down GKE clusters and node pools, deploys
// workloads onto them, and exports model repositories to object storage.
//
// Commands: cluster, nodepool, deploy, export, version.
//
// For detailed usage information, run:
//
//	gkeops --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/gkeops/cmd/gkeops/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
