package main

import (
	"github.com/robotalks/serbridge/pkg/cli/sh"
	"github.com/robotalks/serbridge/pkg/env"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
