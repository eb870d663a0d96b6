package main

import "github.com/jsetina/faceclock/cmd"

func main() {
	cmd.Execute()
}
