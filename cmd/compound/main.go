package main

import (
	"os"

	"github.com/rustyeddy/compound/cmd/compound/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
