package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

const sessionsSchema = `
CREATE TABLE IF NOT EXISTS cli_sessions (
	caller_id      TEXT PRIMARY KEY,
	cli_session_id TEXT NOT NULL,
	created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_used_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, sessionsSchema); err != nil {
		return fmt.Errorf("create cli_sessions table: %w", err)
	}
	return nil
}

// SessionFor returns the CLI session ID mapped to the caller, minting a new
// one on first sight. The mapping's last_used_at is refreshed on every hit.
func (s *Store) SessionFor(ctx context.Context, callerID string) (string, error) {
	if callerID == "" {
		return "", nil
	}

	var sessionID string
	err := s.DB.QueryRowContext(ctx,
		`SELECT cli_session_id FROM cli_sessions WHERE caller_id = ?`,
		callerID,
	).Scan(&sessionID)

	switch {
	case err == sql.ErrNoRows:
		sessionID = uuid.New().String()
		if _, err := s.DB.ExecContext(ctx,
			`INSERT INTO cli_sessions (caller_id, cli_session_id) VALUES (?, ?)`,
			callerID, sessionID,
		); err != nil {
			return "", fmt.Errorf("insert cli session: %w", err)
		}
		return sessionID, nil
	case err != nil:
		return "", fmt.Errorf("lookup cli session: %w", err)
	}

	if _, err := s.DB.ExecContext(ctx,
		`UPDATE cli_sessions SET last_used_at = CURRENT_TIMESTAMP WHERE caller_id = ?`,
		callerID,
	); err != nil {
		return "", fmt.Errorf("touch cli session: %w", err)
	}

	return sessionID, nil
}

// DropSession removes the mapping for a caller so the next request starts a
// fresh CLI session.
func (s *Store) DropSession(ctx context.Context, callerID string) error {
	if callerID == "" {
		return nil
	}
	if _, err := s.DB.ExecContext(ctx,
		`DELETE FROM cli_sessions WHERE caller_id = ?`,
		callerID,
	); err != nil {
		return fmt.Errorf("drop cli session: %w", err)
	}
	return nil
}
