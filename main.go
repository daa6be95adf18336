package main

import "github.com/andaloo23/music-copilot/cmd"

func main() {
	cmd.Execute()
}
