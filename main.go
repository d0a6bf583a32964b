package main

import "github.com/will-rowe/minsketch/cmd"

func main() {
	cmd.Execute()
}
