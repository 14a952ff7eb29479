package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/acksell/gamelog/event"
	"github.com/acksell/gamelog/game"
)

const (
	demoGameID   = "game-001"
	demoGameName = "Team Bravo"
)

func newDemoCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Create a sample game, record its start event and read it back",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			ctx := cmd.Context()
			a.log.Info("app is running", "max_connections", a.settings.MaxConnections)

			start := a.now().UTC()
			g := game.Game{ID: demoGameID, DisplayName: demoGameName, StartTime: &start}
			if err := a.games.Insert(ctx, g); err != nil {
				return err
			}
			a.log.Info("created game", "id", g.ID, "name", g.DisplayName)

			ev := event.Event{GameID: demoGameID, Type: event.Start, Timestamp: a.now().UTC()}
			if err := a.service.InsertEventIfGameExists(ctx, a.newKey(), ev); err != nil {
				// Reported but not fatal; the game is still read back below.
				a.log.Error("failed to log event", "error", err)
			} else {
				a.log.Info("logged event", "game", ev.GameID, "type", ev.Type)
			}

			fetched, found, err := a.games.Get(ctx, demoGameID)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("game %q vanished after insert", demoGameID)
			}
			return a.out.game(fetched)
		}),
	}
}
