package main

import (
	"github.com/mcoot/jigsawd/internal/cli"
)

func main() {
	cli.Execute()
}
