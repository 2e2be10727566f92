package main

import (
	"os"

	"github.com/bianoble/recipe-compat/cmd/recipe-compat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
