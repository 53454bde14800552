// Package main is the entry point for the playcall CLI tool, which imports
// play-by-play logs and ranks play calls for a given game situation.
package main

import "github.com/pable/go-playcall/cmd"

func main() {
	cmd.Execute()
}
