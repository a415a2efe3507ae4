package main

import (
	"fmt"
	"os"

	"github.com/smartnote/core/cmd/api/commands"
)

// @title SmartNote API
// @version 1.0
// @description Notes, tasks and users for the SmartNote client
// @contact.name SmartNote
// @contact.url https://github.com/smartnote/core

// @license.name MIT

// @host localhost:8080
// @BasePath /api

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
