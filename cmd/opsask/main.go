package main

import (
	"os"

	"github.com/moolen/opsask/cmd/opsask/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
