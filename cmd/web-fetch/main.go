// Command web-fetch prints a web page converted to markdown.
package main

import "github.com/liludouglass/opencode-workflow/internal/cli"

func main() {
	cli.Main(cli.WebFetch())
}
