// Command google-search queries the Google Custom Search API and prints JSON results.
package main

import "github.com/liludouglass/opencode-workflow/internal/cli"

func main() {
	cli.Main(cli.GoogleSearch())
}
