package main

import "kaso/cmd"

func main() {
	cmd.Execute()
}
