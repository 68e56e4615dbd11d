// This file implements grouping of denormalized media item rows.
//
// Item queries join media_items with resource_properties, so an item with N
// properties spans N rows, one property per row. The grouper collapses each
// run of rows sharing an ID into one MediaItem in a single forward pass.
package sqlite

import (
	"iter"
	"time"

	"github.com/mesh-intelligence/songbird/pkg/types"
)

// itemColumns names the result columns read by the grouper.
type itemColumns struct {
	ID            string
	ContentURL    string
	Created       string
	Updated       string
	ListType      string // empty for queries that do not select a list type
	GroupKey      string // column whose runs form one group; empty groups on ID
	PropertyID    string
	PropertyValue string
}

// trackColumns matches queryTracks.
var trackColumns = itemColumns{
	ID:            "media_item_id",
	ContentURL:    "content_url",
	Created:       "created",
	Updated:       "updated",
	PropertyID:    "property_id",
	PropertyValue: "obj",
}

// listColumns matches queryListItems.
var listColumns = itemColumns{
	ID:            "media_item_id",
	ContentURL:    "content_url",
	Created:       "created",
	Updated:       "updated",
	ListType:      "media_list_type_id",
	PropertyID:    "property_id",
	PropertyValue: "obj",
}

// memberColumns matches queryListMembers. A track listed twice in one list
// has two memberships, so member rows are grouped per membership.
var memberColumns = itemColumns{
	ID:            "media_item_id",
	ContentURL:    "content_url",
	Created:       "created",
	Updated:       "updated",
	ListType:      "media_list_type_id",
	GroupKey:      "membership_id",
	PropertyID:    "property_id",
	PropertyValue: "obj",
}

// ordinalColumn is the member ordinal selected by queryListMembers.
const ordinalColumn = "ordinal"

// groupItems yields one sealed MediaItem per run of rows sharing an ID.
//
// The rows must be ordered by ID ascending. The order is not checked: rows of
// one item that are not contiguous produce several items with the same ID.
// Rows with a NULL property ID or value add no property, so items without
// properties (outer join misses) are still yielded. When a property code
// repeats within an item the last value wins.
//
// The sequence is single-pass and holds one item plus the cursor's current
// row. Cursor and column errors are yielded once and end the sequence; the
// item being built when the error occurred is not yielded.
func groupItems(c Cursor, cols itemColumns) iter.Seq2[*types.MediaItem, error] {
	return groupRows(c, cols, func(item *types.MediaItem) (*types.MediaItem, error) {
		return item, nil
	})
}

// groupMembers groups list member rows per membership (cols.GroupKey) and
// pairs every member with the ordinal column of its first row. Members are
// yielded in row order; sorting by ordinal is left to the caller.
func groupMembers(c Cursor, cols itemColumns) iter.Seq2[types.MemberMediaItem, error] {
	return groupRows(c, cols, func(item *types.MediaItem) (types.MemberMediaItem, error) {
		ord, err := c.NullString(ordinalColumn)
		if err != nil {
			return types.MemberMediaItem{}, err
		}
		mm := types.MemberMediaItem{Member: item}
		if ord.Valid && ord.String != "" {
			mm.Ordinal = &ord.String
		}
		return mm, nil
	})
}

// groupRows drives the cursor. start is called with the cursor on the first
// row of each new group, after the scalar columns have been read.
func groupRows[T any](c Cursor, cols itemColumns, start func(*types.MediaItem) (T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		if !c.Next() {
			if err := c.Err(); err != nil {
				yield(zero, err)
			}
			return
		}

		key, err := groupKey(c, cols)
		if err != nil {
			yield(zero, err)
			return
		}

		for {
			item, err := readItem(c, cols)
			if err != nil {
				yield(zero, err)
				return
			}
			out, err := start(item)
			if err != nil {
				yield(zero, err)
				return
			}

			nextKey, more, err := readProperties(c, cols, item, key)
			if err != nil {
				yield(zero, err)
				return
			}
			if !yield(out, nil) || !more {
				return
			}
			key = nextKey
		}
	}
}

// groupKey reads the value that delimits groups from the current row.
func groupKey(c Cursor, cols itemColumns) (int64, error) {
	if cols.GroupKey == "" {
		return c.Int64(cols.ID)
	}
	return c.Int64(cols.GroupKey)
}

// readItem starts an item from the scalar columns of the current row.
func readItem(c Cursor, cols itemColumns) (*types.MediaItem, error) {
	id, err := c.Int64(cols.ID)
	if err != nil {
		return nil, err
	}
	item := types.NewMediaItem(id)

	url, err := c.NullString(cols.ContentURL)
	if err != nil {
		return nil, err
	}
	if url.Valid {
		item.ContentURL = &url.String
	}

	if item.Created, err = readMillis(c, cols.Created); err != nil {
		return nil, err
	}
	if item.Updated, err = readMillis(c, cols.Updated); err != nil {
		return nil, err
	}

	if cols.ListType != "" {
		lt, err := c.NullInt64(cols.ListType)
		if err != nil {
			return nil, err
		}
		if lt.Valid {
			v := int(lt.Int64)
			item.ListType = &v
		}
	}
	return item, nil
}

// readProperties adds the property of the current row to item and advances
// while the rows carry the same group key. It returns the key of the next
// group, or more=false when the rows are exhausted.
func readProperties(c Cursor, cols itemColumns, item *types.MediaItem, key int64) (nextKey int64, more bool, err error) {
	for {
		code, err := c.NullInt64(cols.PropertyID)
		if err != nil {
			return 0, false, err
		}
		if code.Valid {
			value, err := c.NullString(cols.PropertyValue)
			if err != nil {
				return 0, false, err
			}
			if value.Valid {
				item.Properties[int(code.Int64)] = value.String
			}
		}

		if !c.Next() {
			return 0, false, c.Err()
		}
		next, err := groupKey(c, cols)
		if err != nil {
			return 0, false, err
		}
		if next != key {
			return next, true, nil
		}
	}
}

// readMillis reads an epoch-millisecond column; NULL gives the zero time.
func readMillis(c Cursor, col string) (time.Time, error) {
	ms, err := c.NullInt64(col)
	if err != nil {
		return time.Time{}, err
	}
	if !ms.Valid {
		return time.Time{}, nil
	}
	return time.UnixMilli(ms.Int64), nil
}
