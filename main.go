package main

import (
	"os"

	"github.com/luoyeETH/gogov/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
