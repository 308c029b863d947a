// Command save-yt-query writes a versioned answer about a YouTube video.
package main

import "github.com/liludouglass/opencode-workflow/internal/cli"

func main() {
	cli.Main(cli.SaveYTQuery())
}
