package main

import (
	"os"
	"strconv"

	"golang.org/x/term"
)

const DEFAULT_COLUMNS = 80

// Width of the terminal behind `f`. Falls back to $COLUMNS, then
// DEFAULT_COLUMNS, when `f` is not a terminal
func terminalColumns(f *os.File) int {
	fd := int(f.Fd())
	if term.IsTerminal(fd) {
		if cols, _, err := term.GetSize(fd); err == nil && cols > 0 {
			return cols
		}
	}
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 0 {
		return cols
	}
	return DEFAULT_COLUMNS
}

// Whether `f` is an interactive terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
