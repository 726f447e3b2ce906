package main

import (
	"os"

	"github.com/ajaxify/esi/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
