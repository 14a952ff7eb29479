package main

import (
	"github.com/spf13/cobra"

	"github.com/acksell/gamelog/event"
)

func newEventCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Record and list game events",
	}
	cmd.AddCommand(newEventRecordCommand(opts))
	cmd.AddCommand(newEventListCommand(opts))
	return cmd
}

func newEventRecordCommand(opts *rootOptions) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "record <game-id> <type>",
		Short: "Record an event for an existing game",
		Long:  "Record an event for an existing game. Type is one of start, attempt, solve or levelup.",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			typ, err := event.ParseType(args[1])
			if err != nil {
				return usageErrorf("%v", err)
			}
			k := key
			if k == "" {
				k = a.newKey()
			}
			entry := event.Entry{
				Key:   k,
				Event: event.Event{GameID: args[0], Type: typ, Timestamp: a.now().UTC()},
			}
			if err := a.service.InsertEventIfGameExists(cmd.Context(), entry.Key, entry.Event); err != nil {
				return err
			}
			a.log.Debug("event recorded", "key", entry.Key, "game", entry.Event.GameID, "type", typ)
			return a.out.entry(entry)
		}),
	}
	cmd.Flags().StringVar(&key, "key", "", "event key (default: a new time-ordered UUID)")
	return cmd
}

func newEventListCommand(opts *rootOptions) *cobra.Command {
	var gameID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events, optionally for one game",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			var (
				entries []event.Entry
				err     error
			)
			if gameID != "" {
				entries, err = a.service.EventsForGame(cmd.Context(), gameID)
			} else {
				entries, err = a.events.All(cmd.Context())
			}
			if err != nil {
				return err
			}
			return a.out.entries(entries)
		}),
	}
	cmd.Flags().StringVar(&gameID, "game", "", "only list events of this game, oldest first")
	return cmd
}
