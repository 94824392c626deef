package main

import "github.com/oshokin/circuit-breaker/cmd/breaker-server/cmd"

func main() {
	cmd.Execute()
}
