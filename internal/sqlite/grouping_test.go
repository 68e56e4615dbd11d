package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/songbird/pkg/types"
)

// fakeRow is one result row keyed by column name. A missing or nil value
// reads as NULL.
type fakeRow map[string]any

// sliceCursor is an in-memory Cursor. failAt makes Next fail when it would
// move to that row index.
type sliceCursor struct {
	rows   []fakeRow
	pos    int
	failAt int
	err    error
	nexts  int
}

func newSliceCursor(rows ...fakeRow) *sliceCursor {
	return &sliceCursor{rows: rows, pos: -1, failAt: -1}
}

func (c *sliceCursor) Next() bool {
	if c.err != nil {
		return false
	}
	c.nexts++
	c.pos++
	if c.failAt >= 0 && c.pos == c.failAt {
		c.err = errors.New("disk I/O error")
		return false
	}
	return c.pos < len(c.rows)
}

func (c *sliceCursor) Err() error { return c.err }

func (c *sliceCursor) get(col string) any {
	return c.rows[c.pos][col]
}

func (c *sliceCursor) Int64(col string) (int64, error) {
	n, err := c.NullInt64(col)
	if err != nil {
		return 0, err
	}
	if !n.Valid {
		return 0, fmt.Errorf("column %q is NULL", col)
	}
	return n.Int64, nil
}

func (c *sliceCursor) NullInt64(col string) (sql.NullInt64, error) {
	switch v := c.get(col).(type) {
	case nil:
		return sql.NullInt64{}, nil
	case int:
		return sql.NullInt64{Int64: int64(v), Valid: true}, nil
	case int64:
		return sql.NullInt64{Int64: v, Valid: true}, nil
	default:
		return sql.NullInt64{}, fmt.Errorf("column %q: unexpected %T", col, v)
	}
}

func (c *sliceCursor) NullString(col string) (sql.NullString, error) {
	switch v := c.get(col).(type) {
	case nil:
		return sql.NullString{}, nil
	case string:
		return sql.NullString{String: v, Valid: true}, nil
	default:
		return sql.NullString{}, fmt.Errorf("column %q: unexpected %T", col, v)
	}
}

// propRow builds a track row carrying one property.
func propRow(id int64, prop any, val any) fakeRow {
	return fakeRow{
		"media_item_id": id,
		"content_url":   fmt.Sprintf("file:///music/%d.mp3", id),
		"created":       int64(1000 * id),
		"updated":       int64(2000 * id),
		"property_id":   prop,
		"obj":           val,
	}
}

func collectItems(t *testing.T, c Cursor, cols itemColumns) ([]*types.MediaItem, error) {
	t.Helper()
	var items []*types.MediaItem
	for item, err := range groupItems(c, cols) {
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}

func TestGroupItems_Scenario(t *testing.T) {
	c := newSliceCursor(
		propRow(1, 10, "A"),
		propRow(1, 11, "B"),
		propRow(2, 10, "C"),
	)

	items, err := collectItems(t, c, trackColumns)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, map[int]string{10: "A", 11: "B"}, items[0].Properties)
	assert.Equal(t, int64(2), items[1].ID)
	assert.Equal(t, map[int]string{10: "C"}, items[1].Properties)

	require.NotNil(t, items[0].ContentURL)
	assert.Equal(t, "file:///music/1.mp3", *items[0].ContentURL)
	assert.Equal(t, time.UnixMilli(1000), items[0].Created)
	assert.Equal(t, time.UnixMilli(2000), items[0].Updated)
	assert.Nil(t, items[0].ListType, "track columns carry no list type")
}

func TestGroupItems_EdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		rows  []fakeRow
		check func(t *testing.T, items []*types.MediaItem)
	}{
		{
			name: "no rows yields nothing",
			rows: nil,
			check: func(t *testing.T, items []*types.MediaItem) {
				assert.Empty(t, items)
			},
		},
		{
			name: "null property code adds no property",
			rows: []fakeRow{propRow(1, nil, nil), propRow(2, 10, "x")},
			check: func(t *testing.T, items []*types.MediaItem) {
				require.Len(t, items, 2)
				assert.Empty(t, items[0].Properties)
				assert.Equal(t, map[int]string{10: "x"}, items[1].Properties)
			},
		},
		{
			name: "single item with null property at end of stream",
			rows: []fakeRow{propRow(7, nil, nil)},
			check: func(t *testing.T, items []*types.MediaItem) {
				require.Len(t, items, 1)
				assert.Equal(t, int64(7), items[0].ID)
				assert.Empty(t, items[0].Properties)
			},
		},
		{
			name: "null property value is absent",
			rows: []fakeRow{propRow(1, 10, nil), propRow(1, 11, "y")},
			check: func(t *testing.T, items []*types.MediaItem) {
				require.Len(t, items, 1)
				assert.Equal(t, map[int]string{11: "y"}, items[0].Properties)
			},
		},
		{
			name: "repeated property code keeps last value",
			rows: []fakeRow{propRow(1, 10, "first"), propRow(1, 10, "second")},
			check: func(t *testing.T, items []*types.MediaItem) {
				require.Len(t, items, 1)
				assert.Equal(t, "second", items[0].Properties[10])
			},
		},
		{
			name: "null content url",
			rows: []fakeRow{{"media_item_id": int64(3), "property_id": nil}},
			check: func(t *testing.T, items []*types.MediaItem) {
				require.Len(t, items, 1)
				assert.Nil(t, items[0].ContentURL)
				assert.True(t, items[0].Created.IsZero())
			},
		},
		{
			name: "unsorted ids split into separate items",
			rows: []fakeRow{propRow(1, 10, "a"), propRow(2, 10, "b"), propRow(1, 11, "c")},
			check: func(t *testing.T, items []*types.MediaItem) {
				require.Len(t, items, 3)
				assert.Equal(t, []int64{1, 2, 1}, []int64{items[0].ID, items[1].ID, items[2].ID})
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := collectItems(t, newSliceCursor(tt.rows...), trackColumns)
			require.NoError(t, err)
			tt.check(t, items)
		})
	}
}

func TestGroupItems_ListType(t *testing.T) {
	row := propRow(5, 10, "Road Trip")
	row["media_list_type_id"] = int64(1)
	track := propRow(6, nil, nil)

	items, err := collectItems(t, newSliceCursor(row, track), listColumns)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotNil(t, items[0].ListType)
	assert.Equal(t, 1, *items[0].ListType)
	assert.Nil(t, items[1].ListType)
}

func TestGroupItems_CursorErrorAbortsWithoutPartialItem(t *testing.T) {
	c := newSliceCursor(
		propRow(1, 10, "A"),
		propRow(2, 10, "B"),
		propRow(2, 11, "C"),
	)
	c.failAt = 2

	items, err := collectItems(t, c, trackColumns)
	require.Error(t, err)
	require.Len(t, items, 1, "only the item sealed before the failure")
	assert.Equal(t, int64(1), items[0].ID)
}

func TestGroupItems_ErrorBeforeFirstRow(t *testing.T) {
	c := newSliceCursor(propRow(1, 10, "A"))
	c.failAt = 0

	items, err := collectItems(t, c, trackColumns)
	require.Error(t, err)
	assert.Empty(t, items)
}

func TestGroupItems_MissingColumn(t *testing.T) {
	cols := trackColumns
	cols.ID = "nope"
	_, err := collectItems(t, newSliceCursor(propRow(1, 10, "A")), cols)
	require.Error(t, err)
}

func TestGroupItems_StopEarlyDoesNotReadAhead(t *testing.T) {
	c := newSliceCursor(
		propRow(1, 10, "A"),
		propRow(2, 10, "B"),
		propRow(3, 10, "C"),
		propRow(4, 10, "D"),
	)
	for item, err := range groupItems(c, trackColumns) {
		require.NoError(t, err)
		assert.Equal(t, int64(1), item.ID)
		break
	}
	// One Next for the first row, one lookahead that found item 2.
	assert.Equal(t, 2, c.nexts)
}

// flatten turns items back into id-ordered rows, one row per property.
func flatten(items []*types.MediaItem) []fakeRow {
	var rows []fakeRow
	for _, item := range items {
		base := fakeRow{
			"media_item_id": item.ID,
			"created":       item.Created.UnixMilli(),
			"updated":       item.Updated.UnixMilli(),
		}
		if item.ContentURL != nil {
			base["content_url"] = *item.ContentURL
		}
		codes := make([]int, 0, len(item.Properties))
		for code := range item.Properties {
			codes = append(codes, code)
		}
		slices.Sort(codes)
		if len(codes) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, code := range codes {
			row := fakeRow{}
			for k, v := range base {
				row[k] = v
			}
			row["property_id"] = code
			row["obj"] = item.Properties[code]
			rows = append(rows, row)
		}
	}
	return rows
}

func TestGroupItems_RoundTrip(t *testing.T) {
	url := "file:///music/x.flac"
	original := []*types.MediaItem{
		{ID: 1, ContentURL: &url, Created: time.UnixMilli(10), Updated: time.UnixMilli(20),
			Properties: map[int]string{3: "c", 1: "a", 2: "b"}},
		{ID: 4, Created: time.UnixMilli(30), Updated: time.UnixMilli(40),
			Properties: map[int]string{}},
		{ID: 9, Created: time.UnixMilli(50), Updated: time.UnixMilli(60),
			Properties: map[int]string{7: "only"}},
	}

	grouped, err := collectItems(t, newSliceCursor(flatten(original)...), trackColumns)
	require.NoError(t, err)
	assert.Equal(t, original, grouped)

	regrouped, err := collectItems(t, newSliceCursor(flatten(grouped)...), trackColumns)
	require.NoError(t, err)
	assert.Equal(t, grouped, regrouped)
}

// memberRow builds a list member row of one membership carrying one property.
func memberRow(membership, id int64, ordinal any, prop any, val any) fakeRow {
	r := propRow(id, prop, val)
	r["membership_id"] = membership
	r["ordinal"] = ordinal
	return r
}

func TestGroupMembers_OrdinalFromFirstRow(t *testing.T) {
	c := newSliceCursor(
		memberRow(1, 3, "2.0", 10, "a"),
		memberRow(1, 3, "2.0", 11, "b"),
		memberRow(2, 5, nil, 10, "c"),
		memberRow(3, 8, "", nil, nil),
	)

	var members []types.MemberMediaItem
	for mm, err := range groupMembers(c, memberColumns) {
		require.NoError(t, err)
		members = append(members, mm)
	}
	require.Len(t, members, 3)

	assert.Equal(t, int64(3), members[0].Member.ID)
	require.NotNil(t, members[0].Ordinal)
	assert.Equal(t, "2.0", *members[0].Ordinal)
	assert.Len(t, members[0].Member.Properties, 2)

	assert.Nil(t, members[1].Ordinal, "NULL ordinal is absent")
	assert.Nil(t, members[2].Ordinal, "empty ordinal is absent")
}

func TestGroupMembers_RepeatedTrackKeepsEveryMembership(t *testing.T) {
	// Track 7 is listed twice; its memberships are adjacent in the rows.
	c := newSliceCursor(
		memberRow(1, 7, "1.0", 10, "a"),
		memberRow(1, 7, "1.0", 11, "b"),
		memberRow(4, 7, "2.0", 10, "a"),
		memberRow(4, 7, "2.0", 11, "b"),
		memberRow(2, 9, "3.0", 10, "c"),
	)

	var members []types.MemberMediaItem
	for mm, err := range groupMembers(c, memberColumns) {
		require.NoError(t, err)
		members = append(members, mm)
	}
	require.Len(t, members, 3)

	var ids []int64
	var ords []string
	for _, m := range members {
		ids = append(ids, m.Member.ID)
		ords = append(ords, *m.Ordinal)
	}
	assert.Equal(t, []int64{7, 7, 9}, ids)
	assert.Equal(t, []string{"1.0", "2.0", "3.0"}, ords)
	assert.Len(t, members[0].Member.Properties, 2)
	assert.Len(t, members[1].Member.Properties, 2)
	assert.NotSame(t, members[0].Member, members[1].Member)
}

func TestGroupMembers_MissingMembershipColumn(t *testing.T) {
	c := newSliceCursor(propRow(3, 10, "a"))

	var errs []error
	for _, err := range groupMembers(c, memberColumns) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.Error(t, errs[0])
}

func TestCollectMembers_SortsStably(t *testing.T) {
	row := func(membership, id int64, ordinal string) fakeRow {
		return memberRow(membership, id, ordinal, 10, fmt.Sprintf("track %d", id))
	}
	c := newSliceCursor(
		row(1, 1, "2.0"),
		row(2, 2, "1.5"),
		row(3, 3, "1.5"),
		row(4, 4, "10.0"),
		row(5, 2, "0.5"),
	)

	members, err := collectMembers(c)
	require.NoError(t, err)

	var ids []int64
	var ords []string
	for _, m := range members {
		ids = append(ids, m.Member.ID)
		ords = append(ords, *m.Ordinal)
	}
	assert.Equal(t, []int64{2, 2, 3, 1, 4}, ids)
	assert.Equal(t, []string{"0.5", "1.5", "1.5", "2.0", "10.0"}, ords)
}

func TestCollectMembers_Empty(t *testing.T) {
	members, err := collectMembers(newSliceCursor())
	require.NoError(t, err)
	assert.NotNil(t, members)
	assert.Empty(t, members)
}
