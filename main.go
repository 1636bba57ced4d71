package main

import (
	"os"

	"github.com/PolarWolf314/secenv/cmd"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "0.0.0"

func main() {
	os.Exit(cmd.Execute(version))
}
