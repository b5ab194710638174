// Package main provides the roller binary: the StoryCraft roll engine as a
// CLI and an HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const appName = "roller"

// Set with -ldflags at build time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
