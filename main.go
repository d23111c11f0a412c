package main

import (
	"lxcforge/cmd"
	"lxcforge/internal/logging"
)

func main() {
	defer func() {
		// Sync errors on stderr sinks are expected and ignorable.
		_ = logging.Sync()
	}()

	cmd.Execute()
}
