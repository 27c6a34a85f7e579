package main

import (
	"os"

	"github.com/cablehead/docker-init/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
