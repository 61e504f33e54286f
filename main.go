package main

import "github.com/deploymenttheory/go-pwsafe/cmd"

func main() {
	cmd.Execute()
}
