package main

import "github.com/cmdguard/cmdguard/internal/cli"

func main() {
	cli.Execute()
}
