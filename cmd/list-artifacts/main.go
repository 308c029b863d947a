// Command list-artifacts lists saved research and yt-query artifacts, newest first.
package main

import "github.com/liludouglass/opencode-workflow/internal/cli"

func main() {
	cli.Main(cli.ListArtifacts())
}
