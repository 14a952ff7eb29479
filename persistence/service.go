// Package persistence records game events only for games that exist.
//
// Every Service method runs in a single kvstore transaction spanning the games
// and game_events trees. The existence check and the event write therefore
// commit together: if another writer changes the checked game between the two,
// the commit fails with kvstore.ErrConflict instead of storing an event whose
// game may be gone.
package persistence

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/acksell/gamelog/event"
	"github.com/acksell/gamelog/game"
	"github.com/acksell/gamelog/kvstore"
)

// Tree names used by OpenStores.
const (
	GamesTree  = "games"
	EventsTree = "game_events"
)

// OpenStores builds the game and event stores over their trees in db.
func OpenStores(db *kvstore.DB) (*game.Store, *event.Store, error) {
	games, err := db.Tree(GamesTree)
	if err != nil {
		return nil, nil, err
	}
	events, err := db.Tree(EventsTree)
	if err != nil {
		return nil, nil, err
	}
	return game.NewStore(games), event.NewStore(events), nil
}

// NewEventKey returns a fresh time-ordered unique key for an event.
func NewEventKey() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Service coordinates the game and event stores. It does not own them or the DB.
type Service struct {
	db     *kvstore.DB
	games  *game.Store
	events *event.Store

	// afterCheck runs between the existence check and the event write. It is
	// nil outside tests, which set it to write the checked game concurrently.
	afterCheck func()
}

// New returns a service over stores whose trees live in db.
func New(db *kvstore.DB, games *game.Store, events *event.Store) *Service {
	return &Service{db: db, games: games, events: events}
}

// InsertEventIfGameExists stores ev under key if the game it references exists.
// A missing game fails with KindGameNotFound and nothing is written.
func (s *Service) InsertEventIfGameExists(ctx context.Context, key string, ev event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(tx *kvstore.Tx) error {
		if _, err := s.requireGame(ctx, s.games.WithTx(tx), ev.GameID); err != nil {
			return err
		}
		if s.afterCheck != nil {
			s.afterCheck()
		}
		if err := s.events.WithTx(tx).Insert(ctx, key, ev); err != nil {
			return &Error{Kind: KindEventStore, GameID: ev.GameID, Err: err}
		}
		return nil
	})
	return commitErr(err, ev.GameID)
}

// StartGame sets the game's start time and records a Start event under key.
func (s *Service) StartGame(ctx context.Context, id string, at time.Time, key string) (game.Game, error) {
	return s.transition(ctx, id, key, event.Start, at, func(g *game.Game, at time.Time) error {
		if g.Started() {
			return &Error{Kind: KindAlreadyStarted, GameID: id}
		}
		g.StartTime = &at
		return nil
	})
}

// FinishGame sets the end time of a started game and records a Solve event under key.
func (s *Service) FinishGame(ctx context.Context, id string, at time.Time, key string) (game.Game, error) {
	return s.transition(ctx, id, key, event.Solve, at, func(g *game.Game, at time.Time) error {
		if err := requireRunning(*g); err != nil {
			return err
		}
		g.EndTime = &at
		return nil
	})
}

// AddScore adds delta to a running game's score and records a LevelUp event under key.
func (s *Service) AddScore(ctx context.Context, id string, delta uint32, at time.Time, key string) (game.Game, error) {
	return s.transition(ctx, id, key, event.LevelUp, at, func(g *game.Game, _ time.Time) error {
		if err := requireRunning(*g); err != nil {
			return err
		}
		if g.Score > math.MaxUint32-delta {
			return &Error{Kind: KindScoreOverflow, GameID: id}
		}
		g.Score += delta
		return nil
	})
}

// EventsForGame returns the events of an existing game, oldest first.
func (s *Service) EventsForGame(ctx context.Context, id string) ([]event.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var entries []event.Entry
	err := s.db.View(func(tx *kvstore.Tx) error {
		if _, err := s.requireGame(ctx, s.games.WithTx(tx), id); err != nil {
			return err
		}
		var err error
		entries, err = s.events.WithTx(tx).ForGame(ctx, id)
		if err != nil {
			return &Error{Kind: KindEventStore, GameID: id, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, commitErr(err, id)
	}
	return entries, nil
}

// transition loads a game, applies change and writes the game together with
// an event of type typ, all in one transaction.
func (s *Service) transition(ctx context.Context, id, key string, typ event.Type, at time.Time, change func(*game.Game, time.Time) error) (game.Game, error) {
	if err := ctx.Err(); err != nil {
		return game.Game{}, err
	}
	at = at.UTC()

	var updated game.Game
	err := s.db.Update(func(tx *kvstore.Tx) error {
		games := s.games.WithTx(tx)
		g, err := s.requireGame(ctx, games, id)
		if err != nil {
			return err
		}
		if err := change(&g, at); err != nil {
			return err
		}
		if err := games.Insert(ctx, g); err != nil {
			return &Error{Kind: KindGameStore, GameID: id, Err: err}
		}
		ev := event.Event{GameID: id, Type: typ, Timestamp: at}
		if err := s.events.WithTx(tx).Insert(ctx, key, ev); err != nil {
			return &Error{Kind: KindEventStore, GameID: id, Err: err}
		}
		updated = g
		return nil
	})
	if err != nil {
		return game.Game{}, commitErr(err, id)
	}
	return updated, nil
}

func (s *Service) requireGame(ctx context.Context, games *game.Store, id string) (game.Game, error) {
	g, found, err := games.Get(ctx, id)
	if err != nil {
		return game.Game{}, &Error{Kind: KindGameStore, GameID: id, Err: err}
	}
	if !found {
		return game.Game{}, &Error{Kind: KindGameNotFound, GameID: id}
	}
	return g, nil
}

func requireRunning(g game.Game) error {
	if !g.Started() {
		return &Error{Kind: KindNotStarted, GameID: g.ID}
	}
	if g.Finished() {
		return &Error{Kind: KindAlreadyFinished, GameID: g.ID}
	}
	return nil
}

// commitErr passes service errors through and classifies everything else,
// which can only come from the transaction itself.
func commitErr(err error, gameID string) error {
	if err == nil {
		return nil
	}
	var perr *Error
	if errors.As(err, &perr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &Error{Kind: KindCommit, GameID: gameID, Err: err}
}
