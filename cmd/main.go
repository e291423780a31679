package main

import cmd "github.com/kerbaras/carddex/cmd/carddex"

func main() {
	cmd.Execute()
}
