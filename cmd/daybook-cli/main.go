package main

import "daybook/cmd/daybook-cli/cmd"

func main() {
	cmd.Execute()
}
