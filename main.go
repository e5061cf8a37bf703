package main

import (
	"os"

	"github.com/citymedic/ambucast/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
