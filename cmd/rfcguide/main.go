// rfcguide is a networking glossary for readers of RFCs.
// Single binary, embedded catalog: term lookup, prose annotation, JSON API and MCP tools.
package main

import (
	"fmt"
	"os"

	"github.com/corey/rfcguide/cmd/rfcguide/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		code, msg := cmd.ExitStatus(err)
		if msg != "" {
			fmt.Fprintf(os.Stderr, "error: %s\n", msg)
		}
		os.Exit(code)
	}
}
