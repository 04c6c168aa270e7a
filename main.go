package main

import "github.com/lepinkainen/tsundoku/cmd"

// execute is a seam for testing main without running the real CLI.
var execute = cmd.Execute

func main() {
	execute()
}
