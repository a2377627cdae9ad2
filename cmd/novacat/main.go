package main

import "github.com/okian/novacat/internal/cli"

func main() {
	cli.Execute()
}
