// Package event stores game events in a kvstore tree under caller-chosen keys.
//
// The store is a plain keyed log: it does not check that the referenced game
// exists. Use persistence.Service to record events with that guarantee.
package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/acksell/gamelog/codec"
)

// Type is what happened in a game.
type Type uint8

const (
	Start Type = iota
	Attempt
	Solve
	LevelUp
)

var typeNames = [...]string{
	Start:   "start",
	Attempt: "attempt",
	Solve:   "solve",
	LevelUp: "levelup",
}

// Types lists every event type.
func Types() []Type {
	return []Type{Start, Attempt, Solve, LevelUp}
}

func (t Type) Valid() bool {
	return int(t) < len(typeNames)
}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
	return typeNames[t]
}

// ParseType parses the lower-case name of an event type, as printed by String.
// "level_up" and "level-up" are accepted for LevelUp.
func ParseType(s string) (Type, error) {
	norm := strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(s))
	for i, name := range typeNames {
		if name == norm {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event type %q", s)
}

func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown event type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Event is an immutable fact about a game. A decoded Timestamp is in UTC.
type Event struct {
	GameID    string    `json:"game_id" yaml:"game_id"`
	Type      Type      `json:"type" yaml:"type"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Entry is a stored event together with the key it is stored under.
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Event Event  `json:"event" yaml:"event"`
}

// Marshal encodes ev in the stored binary layout.
func Marshal(ev Event) ([]byte, error) {
	if !ev.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown event type %d", codec.ErrUnencodable, uint8(ev.Type))
	}
	w := codec.NewWriter(codec.FormatV1)
	w.String(ev.GameID)
	w.Byte(byte(ev.Type))
	w.Time(ev.Timestamp)
	return w.Bytes()
}

// Unmarshal decodes an event written by Marshal.
func Unmarshal(data []byte) (Event, error) {
	r := codec.NewReader(data, codec.FormatV1)
	ev := Event{GameID: r.String()}
	ev.Type = Type(r.Byte())
	if !ev.Type.Valid() {
		r.Fail("unknown event type %d", uint8(ev.Type))
	}
	ev.Timestamp = r.Time()
	if err := r.Finish(); err != nil {
		return Event{}, err
	}
	return ev, nil
}
