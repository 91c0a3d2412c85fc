package main

import "github.com/handiism/mgnify-downloader/internal/cli"

func main() {
	cli.Execute()
}
