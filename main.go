package main

import "recipe-manager/cmd"

func main() {
	cmd.Execute()
}
