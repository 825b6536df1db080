package main

import (
	"os"

	"github.com/chatdocs-dev/chatdocs/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
