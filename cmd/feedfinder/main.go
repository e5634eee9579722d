// ABOUTME: Command line entry point for feed discovery
// ABOUTME: Resolves each argument into a feed and prints a summary or JSON

package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
