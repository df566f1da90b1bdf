package main

import (
	"os"

	"github.com/nexthire/nexthire/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
