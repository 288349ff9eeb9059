package main

import (
	"github.com/leadworks/leadctl/pkg/cli"
)

func main() {
	cli.Execute()
}
