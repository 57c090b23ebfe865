package main

import (
	"os"

	"github.com/aloc23/ifit/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
