package main

import "github.com/introspin/introspin/internal/cli"

func main() {
	cli.Execute()
}
