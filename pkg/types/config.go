package types

import (
	"errors"
	"time"
)

// DefaultQueryTimeout bounds every statement sent to the database.
const DefaultQueryTimeout = 30 * time.Second

// Config holds the parameters for Library.Attach.
type Config struct {
	DBPath       string        `json:"db_path" yaml:"db_path"`
	QueryTimeout time.Duration `json:"query_timeout" yaml:"query_timeout"`
}

// Config validation errors.
var (
	ErrDBPathEmpty    = errors.New("database path must not be empty")
	ErrInvalidTimeout = errors.New("query timeout must not be negative")
)

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return ErrDBPathEmpty
	}
	if c.QueryTimeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// GetQueryTimeout returns the configured timeout, or DefaultQueryTimeout when
// none is set.
func (c Config) GetQueryTimeout() time.Duration {
	if c.QueryTimeout == 0 {
		return DefaultQueryTimeout
	}
	return c.QueryTimeout
}
