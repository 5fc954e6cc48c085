package main

import "github.com/guesspro/guesspro-go/internal/cli"

func main() {
	cli.Execute()
}
