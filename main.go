package main

import "github.com/embedquad/quadgen/cmd"

func main() {
	cmd.Execute()
}
