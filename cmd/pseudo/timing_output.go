package main

import (
	"fmt"
	"io"

	"pseudo/internal/observ"
)

func printTimings(out io.Writer, report observ.Report, files int) {
	if out == nil || len(report.Phases) == 0 {
		return
	}
	if files > 1 {
		fmt.Fprintf(out, "%d files\n", files)
	}
	fmt.Fprint(out, report.Summary())
}
