// Command visbench-info prints the row count and per-column layout of an
// existing store file. Diagnostic only; it never writes.
package main

import (
	"fmt"
	"os"

	"github.com/visbench/visbench/internal/tableinfo"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: visbench-info <table>\n")
		os.Exit(1)
	}

	info, err := tableinfo.Inspect(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	info.Render(os.Stdout)
}
