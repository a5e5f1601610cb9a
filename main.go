package main

import "github.com/mull-dev/mull/internal/cli"

func main() {
	cli.Execute()
}
