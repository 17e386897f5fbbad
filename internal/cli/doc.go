// Package cli implements the chartty command-line interface.
//
// Each Cobra command delegates to a plain function that takes an options
// struct, so the work can be tested without going through flag parsing.
//
// # Command Structure
//
//	chartty run                 - Poll every series and draw the overlay
//	chartty check               - Validate the config and list every series
//	chartty init                - Create chartty.yaml
//	chartty add-series <chart> <name> - Append a series to a chart
//	chartty version             - Print build information
//
// # Flag Handling
//
// Global flags (--config, --verbose, --no-color) are defined on the root
// command. Durations accept Go syntax plus days and weeks ("90s", "1d").
//
// # Output
//
// run draws a Bubble Tea overlay when stdout is a terminal and falls back
// to plain text lines otherwise. While the overlay owns the terminal, log
// output goes to log.file, or nowhere when that is unset.
package cli
