// Package main provides the CLI entry point for the MemoRable ranking
// engine.
//
// The engine itself is a library; this binary exposes its maintenance and
// inspection surfaces:
//
//	memorable score --user alice < features.json
//	memorable retrieve --user alice --query "maya commitments" < candidates.json
//	memorable feedback --log <id> --acted --feedback helpful
//	memorable recalibrate --user alice
//	memorable recalibrate --all
//	memorable daemon --schedule "0 3 * * *"
//	memorable fade --base 80 --accesses 3
//
// Configuration is read from the file named by --config or the
// MEMORABLE_CONFIG environment variable; defaults apply when neither is
// set.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
