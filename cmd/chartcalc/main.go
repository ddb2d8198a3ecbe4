package main

import (
	"os"

	"github.com/rustyeddy/chartcalc/cmd/chartcalc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
