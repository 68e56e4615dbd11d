package types

import (
	"fmt"
	"slices"
	"strconv"
	"time"
)

// MediaItem is a track or a list header read from the media_items table
// together with its resource properties.
type MediaItem struct {
	ID         int64          // media_item_id.
	ContentURL *string        // content_url; nil when the column is NULL.
	Created    time.Time      // Time the item was added to the library.
	Updated    time.Time      // Time the item was last updated.
	ListType   *int           // media_list_type_id; set only for lists.
	Properties map[int]string // Property values keyed by property code.
}

// NewMediaItem returns an empty item with the given ID.
func NewMediaItem(id int64) *MediaItem {
	return &MediaItem{ID: id, Properties: make(map[int]string)}
}

// Property returns the value of the named property. The name is translated
// through codes; a name that is not in the code table cannot be present on
// any item, so it reports false.
func (m *MediaItem) Property(codes CodeLookup, name string) (string, bool) {
	if codes == nil || name == "" {
		return "", false
	}
	code, err := codes.PropertyCode(name)
	if err != nil {
		return "", false
	}
	v, ok := m.Properties[code]
	return v, ok
}

// PropertyInt64 returns the named property parsed as an integer.
// Returns false if the property is absent or not a number.
func (m *MediaItem) PropertyInt64(codes CodeLookup, name string) (int64, bool) {
	s, ok := m.Property(codes, name)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// PropertyTime returns the named property read as epoch milliseconds.
func (m *MediaItem) PropertyTime(codes CodeLookup, name string) (time.Time, bool) {
	ms, ok := m.PropertyInt64(codes, name)
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// ListTypeName returns the translated media list type.
// Returns false for tracks and for codes missing from the table.
func (m *MediaItem) ListTypeName(codes CodeLookup) (string, bool) {
	if m.ListType == nil || codes == nil {
		return "", false
	}
	return codes.ListTypeName(*m.ListType)
}

// IsList reports whether the item is a list header.
func (m *MediaItem) IsList() bool {
	return m.ListType != nil
}

func (m *MediaItem) String() string {
	url := "<nil>"
	if m.ContentURL != nil {
		url = *m.ContentURL
	}
	listType := "-"
	if m.ListType != nil {
		listType = strconv.Itoa(*m.ListType)
	}
	return fmt.Sprintf("MediaItem[id=%d url=%s listType=%s properties=%d created=%s updated=%s]",
		m.ID, url, listType, len(m.Properties),
		m.Created.UTC().Format(time.RFC3339), m.Updated.UTC().Format(time.RFC3339))
}

// MemberMediaItem is one entry of a simple media list: the member item and
// the ordinal string that positions it in the list.
type MemberMediaItem struct {
	Member  *MediaItem
	Ordinal *string // nil when the ordinal is absent.
}

// Key parses the member's ordinal.
func (mm MemberMediaItem) Key() OrdinalKey {
	if mm.Ordinal == nil {
		return OrdinalKey{}
	}
	return ParseOrdinal(*mm.Ordinal)
}

// SimpleMediaList is a playlist header together with its members.
type SimpleMediaList struct {
	List    *MediaItem
	Members []MemberMediaItem
}

// SortMembers orders the members by ordinal. The sort is stable: members with
// equal ordinals keep their relative order.
func (l *SimpleMediaList) SortMembers() {
	SortMembers(l.Members)
}

// Name returns the list's mediaListName property.
func (l *SimpleMediaList) Name(codes CodeLookup) string {
	if l.List == nil {
		return ""
	}
	name, _ := l.List.Property(codes, PropMediaListName)
	return name
}

// SortMembers stable-sorts members by ordinal. Each ordinal is parsed once.
func SortMembers(members []MemberMediaItem) {
	type keyed struct {
		key    OrdinalKey
		member MemberMediaItem
	}
	ks := make([]keyed, len(members))
	for i, m := range members {
		ks[i] = keyed{key: m.Key(), member: m}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		return CompareOrdinals(a.key, b.key)
	})
	for i := range ks {
		members[i] = ks[i].member
	}
}
