package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	libdb "voltboard/backend/libs/db"
)

var (
	// ErrCredentialsMissing means no store DSN was configured at all.
	ErrCredentialsMissing = errors.New("store: credentials missing")
	// ErrCredentialsInvalid means a DSN was configured but the store rejected it.
	ErrCredentialsInvalid = errors.New("store: credentials invalid")
)

// Session is an explicit handle to the readings store. It replaces the usual
// connect-at-import singleton: the session is constructed once, passed through
// the application graph, and Open is idempotent. Repeated calls return the
// handle established by the first successful one instead of reconnecting.
type Session struct {
	dsn string

	mu sync.Mutex
	db *sql.DB
}

// NewSession creates an unopened session for the given DSN.
func NewSession(dsn string) *Session {
	return &Session{dsn: dsn}
}

// Open establishes the store connection, or returns the already established
// handle. Credential failures are classified so the caller can surface a
// precise diagnostic: a blank DSN is ErrCredentialsMissing, a DSN the store
// rejects is ErrCredentialsInvalid.
func (s *Session) Open() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	if strings.TrimSpace(s.dsn) == "" {
		return nil, ErrCredentialsMissing
	}

	db, err := libdb.NewPostgresDB(s.dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialsInvalid, err)
	}

	s.db = db
	return db, nil
}

// Close releases the underlying handle.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
