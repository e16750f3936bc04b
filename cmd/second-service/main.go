package main

import (
	"os"

	"github.com/fergoeqs/second-service/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
