// Command yt-transcript prints the transcript of a YouTube video.
package main

import "github.com/liludouglass/opencode-workflow/internal/cli"

func main() {
	cli.Main(cli.YTTranscript())
}
