// Command radical is a CDCL SAT solver with an embedded online DRUP/LRAT
// proof checker.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
