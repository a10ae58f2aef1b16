package main

import "github.com/toyz/routemap/internal/cli"

func main() {
	cli.Execute()
}
