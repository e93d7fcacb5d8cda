package main

import "github.com/endorses/wordmask/cmd"

func main() {
	cmd.Execute()
}
