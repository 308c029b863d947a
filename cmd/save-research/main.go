// Command save-research writes a versioned research artifact.
package main

import "github.com/liludouglass/opencode-workflow/internal/cli"

func main() {
	cli.Main(cli.SaveResearch())
}
