package main

import (
	"os"

	"github.com/Vaibhavs10/llm-mem-finder/internal/cli"
)

func main() { os.Exit(cli.Main()) }
