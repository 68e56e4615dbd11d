// Package testdb builds a small Songbird library database for tests.
//
// Tracks 10-13 and lists 20-26 cover the playlist filter rules: 21 is a
// dynamic "&smart" list, 22 an internal download list, 23 has no name, 24
// has no custom type and no members, 25 has no list type. List 20 orders its
// members 10, 12, 11, 13, 10 by ordinal (track 10 is listed twice) and list
// 26 holds tied ordinals.
package testdb

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/songbird/pkg/types"
)

// DDL is the subset of the Songbird library schema the reader uses.
var DDL = []string{
	`CREATE TABLE media_list_types (
    media_list_type_id INTEGER PRIMARY KEY,
    type TEXT UNIQUE NOT NULL,
    factory_contractid TEXT NOT NULL
);`,
	`CREATE TABLE properties (
    property_id INTEGER PRIMARY KEY AUTOINCREMENT,
    property_name TEXT NOT NULL UNIQUE
);`,
	`CREATE TABLE media_items (
    media_item_id INTEGER PRIMARY KEY AUTOINCREMENT,
    guid TEXT UNIQUE NOT NULL,
    created INTEGER NOT NULL,
    updated INTEGER NOT NULL,
    content_url TEXT NOT NULL,
    content_mime_type TEXT,
    content_length INTEGER,
    hidden INTEGER NOT NULL DEFAULT 0,
    media_list_type_id INTEGER,
    is_list INTEGER NOT NULL DEFAULT 0
);`,
	`CREATE TABLE resource_properties (
    media_item_id INTEGER NOT NULL,
    property_id INTEGER NOT NULL,
    obj TEXT NOT NULL,
    obj_sortable TEXT,
    PRIMARY KEY (media_item_id, property_id)
);`,
	`CREATE TABLE simple_media_lists (
    media_item_id INTEGER NOT NULL,
    member_media_item_id INTEGER NOT NULL,
    ordinal TEXT NOT NULL
);`,
}

// Fixture property codes.
const (
	CodeListName   = 1
	CodeCustomType = 2
	CodeTrackName  = 3
	CodeArtistName = 4
	CodeDuration   = 5
)

// Fixture list type codes.
const (
	CodeSimpleList  = 1
	CodeDynamicList = 2
)

type item struct {
	id       int64
	url      string
	listType any // nil for tracks
	isList   bool
	props    map[int]string
}

type member struct {
	list, member int64
	ordinal      string
}

var items = []item{
	// Tracks.
	{id: 10, url: "file:///music/alpha.mp3", props: map[int]string{
		CodeTrackName: "Alpha", CodeArtistName: "Ann", CodeDuration: "180000000"}},
	{id: 11, url: "file:///music/bravo.mp3", props: map[int]string{
		CodeTrackName: "Bravo", CodeArtistName: "Bob"}},
	{id: 12, url: "file:///music/charlie%20delta.mp3"},
	{id: 13, url: "http://radio.example.com/stream", props: map[int]string{
		CodeTrackName: "Delta"}},

	// Lists.
	{id: 20, url: "songbird-medialist://20", isList: true, listType: CodeSimpleList, props: map[int]string{
		CodeListName: "Road Trip", CodeCustomType: "simple"}},
	{id: 21, url: "songbird-medialist://21", isList: true, listType: CodeDynamicList, props: map[int]string{
		CodeListName: "&smart.defaultlist.recentlyplayed", CodeCustomType: "simple"}},
	{id: 22, url: "songbird-medialist://22", isList: true, listType: CodeSimpleList, props: map[int]string{
		CodeListName: "Downloads", CodeCustomType: "download"}},
	{id: 23, url: "songbird-medialist://23", isList: true, listType: CodeSimpleList, props: map[int]string{
		CodeCustomType: "simple"}},
	{id: 24, url: "songbird-medialist://24", isList: true, listType: CodeSimpleList, props: map[int]string{
		CodeListName: "No Type"}},
	{id: 25, url: "songbird-medialist://25", isList: true, props: map[int]string{
		CodeListName: "Typeless"}},
	{id: 26, url: "songbird-medialist://26", isList: true, listType: CodeSimpleList, props: map[int]string{
		CodeListName: "Ties", CodeCustomType: "simple"}},
}

var members = []member{
	{20, 11, "2.0"},
	{20, 10, "1.5"},
	{20, 13, "10.0"},
	{20, 12, "1.10"},
	{20, 10, "999.0"},
	{21, 10, "0"},
	{26, 13, "1.5"},
	{26, 11, "1.5"},
	{26, 10, "0.9"},
}

// Create writes the fixture library to a temp directory and returns the
// database path.
func Create(t testing.TB) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "main@library.songbirdnest.com.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	for _, ddl := range DDL {
		_, err := db.Exec(ddl)
		require.NoError(t, err)
	}

	for code, name := range map[int]string{
		CodeSimpleList:  types.ListTypeSimple,
		CodeDynamicList: types.ListTypeDynamic,
	} {
		_, err := db.Exec(`INSERT INTO media_list_types VALUES (?, ?, ?)`, code, name, "@songbirdnest.com/Songbird/Library/LocalDatabase/"+name)
		require.NoError(t, err)
	}

	for code, name := range map[int]string{
		CodeListName:   types.PropMediaListName,
		CodeCustomType: types.PropCustomType,
		CodeTrackName:  types.PropTrackName,
		CodeArtistName: types.PropArtistName,
		CodeDuration:   types.PropDuration,
	} {
		_, err := db.Exec(`INSERT INTO properties (property_id, property_name) VALUES (?, ?)`, code, name)
		require.NoError(t, err)
	}

	for _, it := range items {
		isList := 0
		if it.isList {
			isList = 1
		}
		_, err := db.Exec(
			`INSERT INTO media_items (media_item_id, guid, created, updated, content_url, media_list_type_id, is_list)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
			it.id, "guid-"+it.url, it.id*1000, it.id*2000, it.url, it.listType, isList,
		)
		require.NoError(t, err)
		for code, value := range it.props {
			_, err := db.Exec(`INSERT INTO resource_properties (media_item_id, property_id, obj) VALUES (?, ?, ?)`,
				it.id, code, value)
			require.NoError(t, err)
		}
	}

	for _, m := range members {
		_, err := db.Exec(`INSERT INTO simple_media_lists VALUES (?, ?, ?)`, m.list, m.member, m.ordinal)
		require.NoError(t, err)
	}

	return path
}
