package main

import (
	"os"

	"taskpilot/cmd/taskpilot/commands"
)

// @title                       taskpilot API
// @version                     1.0
// @description                 Topic-driven task drafts and owner-scoped task tracking.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
