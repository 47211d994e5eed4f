package main

import "github.com/creatorstation/imgenhancer/cmd"

func main() {
	cmd.Execute()
}
