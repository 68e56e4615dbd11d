// This file implements the playlist queries: list headers filtered by the
// caller's policy, and list members ordered by ordinal.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/songbird/internal/codes"
	"github.com/mesh-intelligence/songbird/internal/logger"
	"github.com/mesh-intelligence/songbird/pkg/types"
)

// listFilter decides which list headers are user playlists.
type listFilter struct {
	codes          types.CodeLookup
	ignoreInternal bool
	skipDynamic    bool
}

// newListFilter returns a filter over cache. The code tables must be loaded:
// without them no header could be recognized as named.
func newListFilter(cache *codes.Cache, ignoreInternal, skipDynamic bool) (listFilter, error) {
	if cache == nil || !cache.IsInitialized() {
		return listFilter{}, types.ErrCodesNotLoaded
	}
	return listFilter{codes: cache, ignoreInternal: ignoreInternal, skipDynamic: skipDynamic}, nil
}

// keep applies the rules in order: a list needs a name; with ignoreInternal a
// custom type other than "simple" excludes it (lists without a custom type
// stay); with skipDynamic a name starting with "&smart" excludes it.
// The returned reason is empty when the list is kept.
func (f listFilter) keep(item *types.MediaItem) (bool, string) {
	name, ok := item.Property(f.codes, types.PropMediaListName)
	if !ok {
		return false, "no name"
	}
	if f.ignoreInternal {
		if customType, ok := item.Property(f.codes, types.PropCustomType); ok && customType != types.CustomTypeSimple {
			return false, "internal list type " + customType
		}
	}
	if f.skipDynamic && strings.HasPrefix(name, types.DynamicListPrefix) {
		return false, "dynamic list"
	}
	return true, ""
}

// GetPlaylistItems returns the list headers that pass the filter, ordered by
// ID. Members are not read.
func (b *Backend) GetPlaylistItems(ctx context.Context, ignoreInternal, skipDynamic bool) ([]*types.MediaItem, error) {
	log := b.pass("playlist_items")
	items, err := b.playlistItems(ctx, log, ignoreInternal, skipDynamic)
	if err != nil {
		return nil, err
	}
	log.Debug("read playlists", "count", len(items))
	return items, nil
}

func (b *Backend) playlistItems(ctx context.Context, log *logger.Logger, ignoreInternal, skipDynamic bool) ([]*types.MediaItem, error) {
	db, timeout, err := b.handle()
	if err != nil {
		return nil, err
	}

	filter, err := newListFilter(b.codes, ignoreInternal, skipDynamic)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rows, err := db.QueryContext(ctx, queryListItems)
	if err != nil {
		return nil, wrapQueryErr("query playlists", err)
	}
	defer rows.Close()

	c, err := newRowsCursor(rows)
	if err != nil {
		return nil, err
	}

	var items []*types.MediaItem
	for item, err := range groupItems(c, listColumns) {
		if err != nil {
			return nil, wrapQueryErr("read playlists", err)
		}
		if ok, reason := filter.keep(item); !ok {
			log.Debug("skipping list", "id", item.ID, "reason", reason)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// GetPlaylistMembers returns the members of list listID sorted by ordinal.
func (b *Backend) GetPlaylistMembers(ctx context.Context, listID int64) ([]types.MemberMediaItem, error) {
	db, timeout, err := b.handle()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rows, err := db.QueryContext(ctx, queryListMembers, listID)
	if err != nil {
		return nil, wrapQueryErr(fmt.Sprintf("query members of list %d", listID), err)
	}
	defer rows.Close()

	return readMembers(rows, listID)
}

// GetPlayLists returns the playlists selected by GetPlaylistItems, in the
// same order, each with its members sorted by ordinal. Any failure aborts
// the call and no playlists are returned.
func (b *Backend) GetPlayLists(ctx context.Context, ignoreInternal, skipDynamic bool) ([]*types.SimpleMediaList, error) {
	log := b.pass("playlists")

	headers, err := b.playlistItems(ctx, log, ignoreInternal, skipDynamic)
	if err != nil {
		return nil, err
	}

	db, timeout, err := b.handle()
	if err != nil {
		return nil, err
	}

	stmt, err := db.PrepareContext(ctx, queryListMembers)
	if err != nil {
		return nil, wrapQueryErr("prepare member query", err)
	}
	defer stmt.Close()

	lists := make([]*types.SimpleMediaList, 0, len(headers))
	for _, header := range headers {
		members, err := queryMembers(ctx, stmt, timeout, header.ID)
		if err != nil {
			log.Warn("playlist read aborted", "list", header.ID, "error", err)
			return nil, err
		}
		lists = append(lists, &types.SimpleMediaList{List: header, Members: members})
	}

	log.Debug("read playlists with members", "count", len(lists))
	return lists, nil
}

// queryMembers runs the prepared member query for one list under its own
// statement timeout.
func queryMembers(ctx context.Context, stmt *sql.Stmt, timeout time.Duration, listID int64) ([]types.MemberMediaItem, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rows, err := stmt.QueryContext(ctx, listID)
	if err != nil {
		return nil, wrapQueryErr(fmt.Sprintf("query members of list %d", listID), err)
	}
	defer rows.Close()

	return readMembers(rows, listID)
}

// readMembers groups member rows and sorts the members by ordinal.
func readMembers(rows *sql.Rows, listID int64) ([]types.MemberMediaItem, error) {
	c, err := newRowsCursor(rows)
	if err != nil {
		return nil, err
	}
	members, err := collectMembers(c)
	if err != nil {
		return nil, wrapQueryErr(fmt.Sprintf("read members of list %d", listID), err)
	}
	return members, nil
}

// collectMembers groups the member rows of one list and stable-sorts them by
// ordinal.
func collectMembers(c Cursor) ([]types.MemberMediaItem, error) {
	members := []types.MemberMediaItem{}
	for mm, err := range groupMembers(c, memberColumns) {
		if err != nil {
			return nil, err
		}
		members = append(members, mm)
	}
	types.SortMembers(members)
	return members, nil
}
