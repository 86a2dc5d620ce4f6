package main

import "github.com/funvibe/bladec/pkg/cli"

func main() {
	cli.Main()
}
