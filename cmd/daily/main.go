package main

import (
	"os"

	"github.com/kepler471/daily/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
