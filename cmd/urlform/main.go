// Command urlform serves, edits and compiles URL configurator forms.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "urlform: %v\n", err)
		os.Exit(1)
	}
}
