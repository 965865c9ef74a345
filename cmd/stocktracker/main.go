// Package main is the stocktracker admin CLI.
//
// Usage:
//
//	go run ./cmd/stocktracker migrate
//	go run ./cmd/stocktracker stocks list
package main

import (
	"os"

	"github.com/wonny/stocktracker/cmd/stocktracker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
