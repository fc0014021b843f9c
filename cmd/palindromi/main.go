package main

import "github.com/palindromi-fi/builder/internal/cli"

func main() {
	cli.Execute()
}
