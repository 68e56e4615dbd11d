// Package songbird provides the public API for reading a Songbird library.
// This package exposes the factory functions for creating libraries while
// keeping the SQLite implementation internal.
package songbird

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/songbird/internal/codes"
	"github.com/mesh-intelligence/songbird/internal/logger"
	"github.com/mesh-intelligence/songbird/internal/sqlite"
	"github.com/mesh-intelligence/songbird/pkg/types"
)

// CodeCache holds the list type and property code tables. One cache can be
// shared by every library opened in a process; it is loaded once.
type CodeCache = codes.Cache

// NewCodeCache returns an empty code cache.
func NewCodeCache() *CodeCache {
	return codes.NewCache()
}

// NewLibrary creates a library that translates codes through cache and logs
// to log (nil discards logs). The library is not attached; call Attach with
// a Config to open it.
//
// Example:
//
//	cache := songbird.NewCodeCache()
//	lib := songbird.NewLibrary(cache, nil)
//	err := lib.Attach(types.Config{DBPath: "main@library.songbirdnest.com.db"})
//	defer lib.Detach()
func NewLibrary(cache *CodeCache, log *zap.Logger) types.Library {
	if cache == nil {
		cache = codes.NewCache()
	}
	return sqlite.NewBackend(cache, logger.FromZap(log))
}

// Open creates a library over cache and attaches it to the database at
// config.DBPath.
func Open(config types.Config, cache *CodeCache, log *zap.Logger) (types.Library, error) {
	lib := NewLibrary(cache, log)
	if err := lib.Attach(config); err != nil {
		return nil, err
	}
	return lib, nil
}
