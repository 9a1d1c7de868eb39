// Package main is the entry point for the vmforge CLI.
// vmforge provides command-line access to a VMForge panel, a self-hosted
// management service for virtual machines on Proxmox hosts.
package main

import (
	"os"

	"github.com/vmforge/vmforge-cli/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
