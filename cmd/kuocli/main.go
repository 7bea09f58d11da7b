package main

import (
	"os"

	"github.com/RicardoJBarrios/kuocli/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
