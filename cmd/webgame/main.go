package main

import "github.com/mcoot/webgame/internal/cli"

func main() {
	cli.Execute()
}
