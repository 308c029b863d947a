// Command count-tokens prints exact cl100k_base token counts for text files.
package main

import "github.com/liludouglass/opencode-workflow/internal/cli"

func main() {
	cli.Main(cli.CountTokens())
}
