// gamelog records escape-room games and their events in a local database.
//
// # Installation
//
//	go install github.com/acksell/gamelog/cmd/gamelog@latest
//
// # Commands
//
//	gamelog init                          Write a default settings file
//	gamelog game create <id> --name NAME  Create a game
//	gamelog game start <id>               Start a game (records a start event)
//	gamelog game score <id> <delta>       Add to a running game's score
//	gamelog game finish <id>              Finish a game (records a solve event)
//	gamelog event record <game-id> <type> Record an event for an existing game
//	gamelog event list [--game ID]        List events
//	gamelog stats                         Count stored games and events
//	gamelog demo                          Create a sample game and event
//
// # Configuration
//
// Settings are read from settings.yaml, or from the file named by SETTINGS_PATH
// or --settings. Each run increments max_connections in that file. The database
// directory is data_dir from the settings file, overridden by GAMELOG_DATA_DIR
// and then by --data-dir. --memory (or GAMELOG_IN_MEMORY=true) uses a throwaway
// in-memory database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand(defaultRootOptions())
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "gamelog: %v\n", err)
		stop()
		os.Exit(exitCode(err))
	}
}
