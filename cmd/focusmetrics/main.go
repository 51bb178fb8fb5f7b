package main

import "github.com/tmpllc001/focusmetrics/internal/cli"

func main() {
	cli.Execute()
}
