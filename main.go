// gh-merge-ready is a gh extension that explains why open pull requests cannot be merged.
//
// Install with `gh extension install ryo246912/gh-merge-ready`, then run `gh merge-ready`.
package main

import "github.com/ryo246912/gh-merge-ready/internal/cli"

func main() {
	cli.Execute()
}
