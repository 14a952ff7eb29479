package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/acksell/gamelog/game"
	"github.com/acksell/gamelog/kvstore"
)

func newGameCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Manage games",
	}
	cmd.AddCommand(newGameCreateCommand(opts))
	cmd.AddCommand(newGameGetCommand(opts))
	cmd.AddCommand(newGameListCommand(opts))
	cmd.AddCommand(newGameStartCommand(opts))
	cmd.AddCommand(newGameFinishCommand(opts))
	cmd.AddCommand(newGameScoreCommand(opts))
	return cmd
}

func newGameCreateCommand(opts *rootOptions) *cobra.Command {
	var (
		name  string
		score uint32
		force bool
	)
	cmd := &cobra.Command{
		Use:   "create <id>",
		Short: "Create a game",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			g := game.Game{ID: args[0], DisplayName: name, Score: score}
			if err := createGame(cmd.Context(), a, g, force); err != nil {
				return err
			}
			a.log.Debug("game created", "id", g.ID)
			return a.out.game(g)
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().Uint32Var(&score, "score", 0, "initial score")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing game")
	return cmd
}

func newGameGetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a game",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			g, found, err := a.games.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				return rejectedf("game with id %q not found", args[0])
			}
			return a.out.game(g)
		}),
	}
}

func newGameListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all games",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			games, err := a.games.All(cmd.Context())
			if err != nil {
				return err
			}
			return a.out.games(games)
		}),
	}
}

func newGameStartCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Start a game and record a start event",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			g, err := a.service.StartGame(cmd.Context(), args[0], a.now(), a.newKey())
			if err != nil {
				return err
			}
			a.log.Debug("game started", "id", g.ID, "at", g.StartTime)
			return a.out.game(g)
		}),
	}
}

func newGameFinishCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "finish <id>",
		Short: "Finish a running game and record a solve event",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			g, err := a.service.FinishGame(cmd.Context(), args[0], a.now(), a.newKey())
			if err != nil {
				return err
			}
			a.log.Debug("game finished", "id", g.ID, "at", g.EndTime)
			return a.out.game(g)
		}),
	}
}

func newGameScoreCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "score <id> <delta>",
		Short: "Add to a running game's score and record a levelup event",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			delta, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return usageErrorf("invalid score delta %q: %v", args[1], err)
			}
			g, err := a.service.AddScore(cmd.Context(), args[0], uint32(delta), a.now(), a.newKey())
			if err != nil {
				return err
			}
			a.log.Debug("score added", "id", g.ID, "delta", delta, "score", g.Score)
			return a.out.game(g)
		}),
	}
}

// createGame inserts g, refusing an existing id unless force is set. The check
// and the insert share one transaction; a concurrent create of the same id
// fails with kvstore.ErrConflict.
func createGame(ctx context.Context, a *app, g game.Game, force bool) error {
	return a.db.Update(func(tx *kvstore.Tx) error {
		games := a.games.WithTx(tx)
		if !force {
			_, found, err := games.Get(ctx, g.ID)
			if err != nil {
				return err
			}
			if found {
				return rejectedf("game %q already exists (use --force to overwrite)", g.ID)
			}
		}
		return games.Insert(ctx, g)
	})
}
