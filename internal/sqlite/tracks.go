// This file implements the track queries.
package sqlite

import (
	"context"
	"iter"

	"github.com/mesh-intelligence/songbird/pkg/types"
)

// Tracks streams every media item that is not a list, ordered by ID. The
// query stays open while the sequence is consumed; stopping early closes it.
func (b *Backend) Tracks(ctx context.Context) iter.Seq2[*types.MediaItem, error] {
	return func(yield func(*types.MediaItem, error) bool) {
		log := b.pass("tracks")

		db, timeout, err := b.handle()
		if err != nil {
			yield(nil, err)
			return
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		rows, err := db.QueryContext(ctx, queryTracks)
		if err != nil {
			yield(nil, wrapQueryErr("query tracks", err))
			return
		}
		defer rows.Close()

		c, err := newRowsCursor(rows)
		if err != nil {
			yield(nil, err)
			return
		}

		count := 0
		for item, err := range groupItems(c, trackColumns) {
			if err != nil {
				log.Warn("track read aborted", "after", count, "error", err)
				yield(nil, wrapQueryErr("read tracks", err))
				return
			}
			count++
			if !yield(item, nil) {
				log.Debug("track read stopped by caller", "count", count)
				return
			}
		}
		log.Debug("read tracks", "count", count)
	}
}

// GetAllTracks returns every media item that is not a list, ordered by ID.
// On error no tracks are returned.
func (b *Backend) GetAllTracks(ctx context.Context) ([]*types.MediaItem, error) {
	var tracks []*types.MediaItem
	for item, err := range b.Tracks(ctx) {
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, item)
	}
	return tracks, nil
}
