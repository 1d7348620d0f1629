package main

import "github.com/tapcard/tapcard/cmd/tapctl/cmd"

func main() {
	cmd.Execute()
}
