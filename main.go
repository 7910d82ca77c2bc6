package main

import (
	"os"

	"github.com/busradar/busradar/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
