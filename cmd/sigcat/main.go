package main

import "sigcat/internal/cli"

func main() {
	cli.Execute()
}
