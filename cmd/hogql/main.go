// Command hogql lexes, parses, formats and explains HogQL queries, and
// serves the same operations over HTTP.
//
// Input comes from the files named on the command line, or from standard
// input when there are none or the name is "-".
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// Rejected input has already been reported with its diagnostics.
		if !errors.Is(err, errRejected) {
			fmt.Fprintln(os.Stderr, "hogql:", err)
		}
		os.Exit(1)
	}
}
