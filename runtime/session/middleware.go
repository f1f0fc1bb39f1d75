package session

import (
	"context"
	"time"

	"github.com/satishbabariya/frm-go/internal/debug"
	"github.com/satishbabariya/frm-go/query/sqlgen"
)

// QueryEvent describes one statement run by a session.
type QueryEvent struct {
	Session  string
	SQL      string
	Args     []any
	Start    time.Time
	End      time.Time
	Duration time.Duration
	Err      error
}

// Middleware intercepts statements. It must call next to run the statement.
type Middleware func(ctx context.Context, event *QueryEvent, next func() error) error

// Use appends middleware to the chain. The first middleware added runs outermost.
func (s *Session) Use(mw ...Middleware) {
	s.middlewares = append(s.middlewares, mw...)
}

func (s *Session) run(ctx context.Context, stmt *sqlgen.Query, exec func() error) error {
	event := &QueryEvent{
		Session: s.id.String(),
		SQL:     stmt.SQL,
		Args:    stmt.Args,
		Start:   time.Now(),
	}

	index := 0
	var next func() error
	next = func() error {
		if index >= len(s.middlewares) {
			err := exec()
			event.End = time.Now()
			event.Duration = event.End.Sub(event.Start)
			event.Err = err
			return err
		}
		mw := s.middlewares[index]
		index++
		return mw(ctx, event, next)
	}

	err := next()
	debug.Debug("executed statement", "session", event.Session, "sql", event.SQL, "duration", event.Duration, "error", err)
	return err
}
