package main

import (
	"os"

	"github.com/BOBWANDATI/backend/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
