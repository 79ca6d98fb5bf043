package main

import "github.com/ryo246912/gh-merge-ready/internal/cli"

func main() {
	cli.Execute()
}
