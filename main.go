package main

import "github.com/gaurav-prasanna/wikimirror/cmd"

func main() {
	cmd.Execute()
}
