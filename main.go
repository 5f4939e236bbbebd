package main

import (
	"os"

	"github.com/transitdepot/rosterd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
