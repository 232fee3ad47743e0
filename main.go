package main

import "mafia_web/cmd"

func main() {
	cmd.Execute()
}
