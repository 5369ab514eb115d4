package main

import (
	"os"

	"github.com/vbarros/aquaponia-monitor/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
