package main

import (
	"os"

	"github.com/mosacup/webboard/backend/cmd/webboard/commands"
	"github.com/mosacup/webboard/shared/logger"
)

func main() {
	if err := commands.Execute(); err != nil {
		logger.Log.Error("command failed", "error", err)
		os.Exit(1)
	}
}
