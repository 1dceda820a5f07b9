package main

import "github.com/pfrederiksen/gtg-stats/internal/cli"

func main() {
	cli.Execute()
}
