package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// DefaultSessionKey is the key client-local carts are stored under.
const DefaultSessionKey = "costify-cart"

// MemoryPersistence keeps the saved blob in memory.
type MemoryPersistence struct {
	mu    sync.Mutex
	items []LineItem
	saved bool

	// SaveErr, when set, is returned by Save without storing anything.
	SaveErr error
	Saves   int
}

func NewMemoryPersistence(initial []LineItem) *MemoryPersistence {
	m := &MemoryPersistence{}
	if initial != nil {
		m.items = cloneItems(initial)
		m.saved = true
	}
	return m
}

func (m *MemoryPersistence) Load(ctx context.Context) ([]LineItem, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.saved {
		return nil, false, nil
	}
	return cloneItems(m.items), true, nil
}

func (m *MemoryPersistence) Save(ctx context.Context, items []LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.items = cloneItems(items)
	m.saved = true
	m.Saves++
	return nil
}

// SQLPersistence stores a session's items as one JSON blob in cart_sessions.
// The queries run unchanged on Postgres and SQLite.
type SQLPersistence struct {
	db        *sql.DB
	sessionID string
}

func NewSQLPersistence(db *sql.DB, sessionID string) *SQLPersistence {
	return &SQLPersistence{db: db, sessionID: sessionID}
}

func (p *SQLPersistence) Load(ctx context.Context) ([]LineItem, bool, error) {
	const query = `SELECT items FROM cart_sessions WHERE session_id = $1`

	var raw []byte
	err := p.db.QueryRowContext(ctx, query, p.sessionID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("select cart session: %w", err)
	}

	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, fmt.Errorf("decode cart session %s: %w", p.sessionID, err)
	}
	return items, true, nil
}

func (p *SQLPersistence) Save(ctx context.Context, items []LineItem) error {
	if items == nil {
		items = []LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart session %s: %w", p.sessionID, err)
	}

	const upsert = `
INSERT INTO cart_sessions (session_id, items, updated_at)
VALUES ($1, $2, CURRENT_TIMESTAMP)
ON CONFLICT (session_id) DO UPDATE
SET items = EXCLUDED.items, updated_at = CURRENT_TIMESTAMP
`
	if _, err := p.db.ExecContext(ctx, upsert, p.sessionID, string(raw)); err != nil {
		return fmt.Errorf("upsert cart session: %w", err)
	}
	return nil
}
