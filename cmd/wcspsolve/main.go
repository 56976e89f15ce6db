// Command wcspsolve reads a weighted constraint satisfaction problem in
// one of several file formats and reports the minimum-cost assignment
// strictly below its upper bound, replacing the teacher's single-file
// `main.go` (a hand-rolled `flag.BoolVar`/`flag.Parse` CNF/BF solver
// front-end) with a `github.com/spf13/cobra` command tree sized for this
// engine's much larger flag surface (spec.md §6, SPEC_FULL.md §6.3).
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
