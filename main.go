package main

import (
	_ "embed"

	"github.com/2ta/recall/cmd"
)

//go:embed config/config.yaml
var c string

func main() {
	cmd.Execute(c)
}
