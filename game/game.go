// Package game stores Game records in a kvstore tree keyed by game id.
package game

import (
	"time"

	"github.com/acksell/gamelog/codec"
)

// Game is a single play-through of a room by one team.
//
// StartTime and EndTime are stored as instants: a game read back from a Store
// has them in UTC whatever location they were written with, so compare them
// with time.Time.Equal.
type Game struct {
	ID          string     `json:"id" yaml:"id"`
	DisplayName string     `json:"display_name" yaml:"display_name"`
	StartTime   *time.Time `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	Score       uint32     `json:"score" yaml:"score"`
}

// Started reports whether the game has a start time.
func (g Game) Started() bool { return g.StartTime != nil }

// Finished reports whether the game has an end time.
func (g Game) Finished() bool { return g.EndTime != nil }

// Marshal encodes g in the stored binary layout.
func Marshal(g Game) ([]byte, error) {
	w := codec.NewWriter(codec.FormatV1)
	w.String(g.ID)
	w.String(g.DisplayName)
	w.OptionalTime(g.StartTime)
	w.OptionalTime(g.EndTime)
	w.Uint32(g.Score)
	return w.Bytes()
}

// Unmarshal decodes a game written by Marshal.
func Unmarshal(data []byte) (Game, error) {
	r := codec.NewReader(data, codec.FormatV1)
	g := Game{
		ID:          r.String(),
		DisplayName: r.String(),
		StartTime:   r.OptionalTime(),
		EndTime:     r.OptionalTime(),
		Score:       r.Uint32(),
	}
	if err := r.Finish(); err != nil {
		return Game{}, err
	}
	return g, nil
}
