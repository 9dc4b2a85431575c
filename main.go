package main

import (
	"os"

	"github.com/newhook/sqwatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
