package main

import (
	"fmt"
	"os"
)

// Version is stamped by the release build.
var Version = "1.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
