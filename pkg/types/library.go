package types

import (
	"context"
	"errors"
	"fmt"
	"iter"
)

// Library defines read-only access to a Songbird library database.
// Callers attach to a database file, run queries, and detach when done.
type Library interface {
	// Attach opens the database described by config and loads the code
	// tables. Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases the database. Idempotent: multiple calls succeed.
	// After Detach, queries return ErrLibraryDetached.
	Detach() error

	// Codes returns the code tables used to translate list types and
	// property names.
	Codes() CodeLookup

	// GetAllTracks returns every media item that is not a list, ordered by
	// ID ascending.
	GetAllTracks(ctx context.Context) ([]*MediaItem, error)

	// Tracks streams the same items as GetAllTracks without collecting them.
	Tracks(ctx context.Context) iter.Seq2[*MediaItem, error]

	// GetPlaylistItems returns the playlist header items, without members.
	// Items without a list name are always skipped. ignoreInternal skips
	// lists whose custom type is not "simple"; skipDynamic skips lists whose
	// name starts with "&smart".
	GetPlaylistItems(ctx context.Context, ignoreInternal, skipDynamic bool) ([]*MediaItem, error)

	// GetPlayLists returns the same playlists as GetPlaylistItems, each with
	// its members sorted by ordinal.
	GetPlayLists(ctx context.Context, ignoreInternal, skipDynamic bool) ([]*SimpleMediaList, error)

	// GetPlaylistMembers returns the members of a single list, sorted by
	// ordinal.
	GetPlaylistMembers(ctx context.Context, listID int64) ([]MemberMediaItem, error)
}

// CodeLookup translates the numeric codes stored in the database.
type CodeLookup interface {
	// ListTypeName returns the name of a media list type code.
	ListTypeName(code int) (string, bool)

	// PropertyCode returns the code of a property name. Returns
	// ErrUnknownCode if the name is not in the table and ErrCodesNotLoaded
	// if the tables have not been loaded.
	PropertyCode(name string) (int, error)

	// PropertyName returns the name of a property code.
	PropertyName(code int) (string, bool)
}

// Library lifecycle errors.
var (
	ErrLibraryDetached = errors.New("library is detached")
	ErrAlreadyAttached = errors.New("library is already attached")
)

// Data access errors. ErrDataAccess is the root of every failure reading the
// database; callers test for it with errors.Is.
var (
	ErrDataAccess     = errors.New("data access failed")
	ErrCodesNotLoaded = fmt.Errorf("%w: code tables not loaded", ErrDataAccess)
	ErrUnknownCode    = errors.New("unknown code name")
)
