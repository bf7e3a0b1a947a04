package main

import "github.com/seismotools/ttgen/cmd"

func main() {
	cmd.Execute()
}
