package main

import "github.com/marshallshelly/pebble-dbml/cmd/pebble-dbml/commands"

func main() {
	commands.Execute()
}
