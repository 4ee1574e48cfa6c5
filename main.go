package main

import "github.com/gaurav-prasanna/chunkpipe/cmd"

func main() {
	cmd.Execute()
}
