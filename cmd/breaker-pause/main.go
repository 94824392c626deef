package main

import "github.com/oshokin/circuit-breaker/cmd/breaker-pause/cmd"

func main() {
	cmd.Execute()
}
