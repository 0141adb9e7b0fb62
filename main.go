package main

import (
	"os"

	"github.com/Qwertymart/cdek/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
