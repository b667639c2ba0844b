package main

import (
	cmd "github.com/modforge/uprez/cmd"
)

func main() {
	cmd.Execute()
}
