// Command yt-ask answers a question about a YouTube video with a local model.
package main

import "github.com/liludouglass/opencode-workflow/internal/cli"

func main() {
	cli.Main(cli.YTAsk())
}
