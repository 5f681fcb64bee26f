package main

import "github.com/driftwoodweb/studio-api/internal/cli"

func main() {
	cli.Execute()
}
