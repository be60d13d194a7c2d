package main

import "github.com/teal-bauer/aemctl/cmd"

func main() {
	cmd.Execute()
}
