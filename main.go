package main

import "github.com/Huiwen-Tan/chemsmart/cmd"

func main() {
	cmd.Execute()
}
