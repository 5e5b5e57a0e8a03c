package main

import "github.com/hfmohammed/compiler/cmd"

func main() {
	cmd.Exec()
}
