// Package ui renders fetch progress and tabular summaries for the terminal.
//
// Progress updates flow through a channel from the VideoEngine; [Printer] drains it on its own
// goroutine and writes one styled line per update. Colors come from a lipgloss [Palette] and degrade
// to plain text when the output is not a terminal.
//
// Tables ([Table]) are drawn with go-pretty. [Wait] runs a small bubbletea program with a spinner
// while the device login is pending, falling back to a single plain line off-terminal.
package ui
