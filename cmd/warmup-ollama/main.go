// Command warmup-ollama loads a model into Ollama and keeps it resident.
package main

import "github.com/liludouglass/opencode-workflow/internal/cli"

func main() {
	cli.Main(cli.WarmupOllama())
}
