package main

import (
	"github.com/spf13/cobra"

	"github.com/acksell/gamelog/persistence"
)

func newStatsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count stored games and events",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			var s stats
			for _, c := range []struct {
				tree string
				n    *int
			}{
				{persistence.GamesTree, &s.Games},
				{persistence.EventsTree, &s.Events},
			} {
				tree, err := a.db.Tree(c.tree)
				if err != nil {
					return err
				}
				if *c.n, err = tree.Len(); err != nil {
					return err
				}
			}
			return a.out.stats(s)
		}),
	}
}
