package main

import "github.com/movi-app/movi/cmd"

func main() {
	cmd.Execute()
}
