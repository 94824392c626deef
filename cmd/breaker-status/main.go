package main

import "github.com/oshokin/circuit-breaker/cmd/breaker-status/cmd"

func main() {
	cmd.Execute()
}
