// Command context-bundle prints a token-budgeted context bundle for one task of a feature directory.
package main

import "github.com/liludouglass/opencode-workflow/internal/cli"

func main() {
	cli.Main(cli.ContextBundle())
}
