package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/acksell/gamelog/event"
	"github.com/acksell/gamelog/game"
	"github.com/acksell/gamelog/persistence"
)

// Exit codes.
const (
	exitOK       = 0
	exitRejected = 1 // the request was understood but refused: missing game, lifecycle rule
	exitFailure  = 2 // storage, serialization, settings or usage failure
)

// ExitError carries an explicit exit code for errors that have no persistence Kind.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageErrorf(format string, args ...any) error {
	return &ExitError{Code: exitFailure, Message: fmt.Sprintf(format, args...)}
}

func rejectedf(format string, args ...any) error {
	return &ExitError{Code: exitRejected, Message: fmt.Sprintf(format, args...)}
}

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	switch persistence.KindOf(err) {
	case persistence.KindGameNotFound,
		persistence.KindAlreadyStarted,
		persistence.KindNotStarted,
		persistence.KindAlreadyFinished,
		persistence.KindScoreOverflow:
		return exitRejected
	}
	return exitFailure
}

// printer writes command results as text or JSON.
type printer struct {
	w      io.Writer
	format string
}

func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) game(g game.Game) error {
	if p.format == "json" {
		return p.json(g)
	}
	fmt.Fprintf(p.w, "ID:       %s\n", g.ID)
	fmt.Fprintf(p.w, "Name:     %s\n", g.DisplayName)
	fmt.Fprintf(p.w, "Started:  %s\n", formatTime(g.StartTime))
	fmt.Fprintf(p.w, "Finished: %s\n", formatTime(g.EndTime))
	fmt.Fprintf(p.w, "Score:    %d\n", g.Score)
	return nil
}

func (p *printer) games(games []game.Game) error {
	if p.format == "json" {
		if games == nil {
			games = []game.Game{}
		}
		return p.json(games)
	}
	if len(games) == 0 {
		fmt.Fprintln(p.w, "No games.")
		return nil
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTARTED\tFINISHED\tSCORE")
	for _, g := range games {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", g.ID, g.DisplayName, formatTime(g.StartTime), formatTime(g.EndTime), g.Score)
	}
	return tw.Flush()
}

func (p *printer) entry(e event.Entry) error {
	if p.format == "json" {
		return p.json(e)
	}
	fmt.Fprintf(p.w, "Recorded %s event %s for game %s at %s\n", e.Event.Type, e.Key, e.Event.GameID, e.Event.Timestamp.Format(time.RFC3339))
	return nil
}

func (p *printer) entries(entries []event.Entry) error {
	if p.format == "json" {
		if entries == nil {
			entries = []event.Entry{}
		}
		return p.json(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(p.w, "No events.")
		return nil
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tGAME\tTYPE\tTIMESTAMP")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Key, e.Event.GameID, e.Event.Type, e.Event.Timestamp.Format(time.RFC3339))
	}
	return tw.Flush()
}

type stats struct {
	Games  int `json:"games"`
	Events int `json:"events"`
}

func (p *printer) stats(s stats) error {
	if p.format == "json" {
		return p.json(s)
	}
	fmt.Fprintf(p.w, "Games:  %d\n", s.Games)
	fmt.Fprintf(p.w, "Events: %d\n", s.Events)
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.RFC3339)
}
