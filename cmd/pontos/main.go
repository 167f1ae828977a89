package main

import (
	"os"

	"github.com/nichtsfrei/pontos/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
