package main

import "github.com/meditationhr/cmd"

func main() {
	cmd.Execute()
}
