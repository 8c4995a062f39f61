package main

import "github.com/sartorproj/saeval/cmd/saeval/cmd"

func main() {
	cmd.Execute()
}
