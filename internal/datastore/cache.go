package datastore

import (
	"context"
	"sync"

	"github.com/jmoiron/sqlx"
)

// StatementCache caches prepared statements keyed by query text
type StatementCache struct {
	mu         sync.RWMutex
	statements map[string]*sqlx.Stmt
	db         *sqlx.DB
}

// NewStatementCache creates a new prepared statement cache
func NewStatementCache(db *sqlx.DB) *StatementCache {
	return &StatementCache{
		statements: make(map[string]*sqlx.Stmt),
		db:         db,
	}
}

// Get retrieves or creates a prepared statement
func (c *StatementCache) Get(ctx context.Context, query string) (*sqlx.Stmt, error) {
	c.mu.RLock()
	if stmt, ok := c.statements[query]; ok {
		c.mu.RUnlock()
		return stmt, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if stmt, ok := c.statements[query]; ok {
		return stmt, nil
	}

	stmt, err := c.db.PreparexContext(ctx, query)
	if err != nil {
		return nil, err
	}

	c.statements[query] = stmt
	return stmt, nil
}

// Close closes all prepared statements and clears the cache
func (c *StatementCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var lastErr error
	for _, stmt := range c.statements {
		if err := stmt.Close(); err != nil {
			lastErr = err
		}
	}

	c.statements = make(map[string]*sqlx.Stmt)
	return lastErr
}

// Clear removes a specific prepared statement from cache
func (c *StatementCache) Clear(query string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if stmt, ok := c.statements[query]; ok {
		delete(c.statements, query)
		return stmt.Close()
	}

	return nil
}

// Size returns the number of cached prepared statements
func (c *StatementCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.statements)
}
