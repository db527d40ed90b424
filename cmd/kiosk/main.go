package main

import (
	"os"

	"votekiosk/cmd/kiosk/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
