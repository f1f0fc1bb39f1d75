package session

import (
	"context"
	"fmt"

	"github.com/satishbabariya/frm-go/internal/debug"
	"github.com/satishbabariya/frm-go/schema"
)

// Tx is a transaction started by Session.Transaction.
type Tx struct {
	s  *Session
	tx execer
}

// Insert adds one row to entry's table inside the transaction.
func (t *Tx) Insert(ctx context.Context, entry *schema.Entry, values ...any) error {
	return t.s.insert(ctx, t.tx, entry, values)
}

// Transaction runs fn in a transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
func (s *Session) Transaction(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&Tx{s: s, tx: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			debug.Warn("rollback failed", "session", s.id, "error", rbErr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
