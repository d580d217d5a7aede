package main

import (
	"os"

	"github.com/dshills/datecommit/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
