package main

import "colophon/cmd/colophon-cli/cmd"

func main() {
	cmd.Execute()
}
