// Package main provides the prophet CLI: the landing page server, a terminal
// feed tail and an interactive oracle session.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
