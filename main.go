// tr is the CLI for the issue tracker.
package main

import (
	"fmt"
	"os"

	"issuetracker/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
