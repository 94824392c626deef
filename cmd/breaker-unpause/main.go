package main

import "github.com/oshokin/circuit-breaker/cmd/breaker-unpause/cmd"

func main() {
	cmd.Execute()
}
