package main

import (
	"os"

	"socialfeed/internal/cli"
	"socialfeed/internal/logger"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		log := logger.Component("main")
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
