// This file holds the queries against the Songbird library schema.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/songbird/pkg/types"
)

// Tables every Songbird library database must contain.
var schemaTables = []string{
	"media_items",
	"media_list_types",
	"properties",
	"resource_properties",
	"simple_media_lists",
}

// Queries. Item and list queries are ordered by media_item_id so rows of one
// item are contiguous for the grouper.
const (
	queryListTypes = `SELECT media_list_type_id, type FROM media_list_types ORDER BY media_list_type_id`

	queryProperties = `SELECT property_id, property_name FROM properties ORDER BY property_id`

	queryTracks = `SELECT m.media_item_id, m.content_url, m.created, m.updated, r.property_id, r.obj
FROM media_items m
LEFT JOIN resource_properties AS r ON m.media_item_id = r.media_item_id
WHERE m.is_list = 0
ORDER BY m.media_item_id`

	// Includes empty lists and lists without a name; the assembler filters.
	queryListItems = `SELECT m.media_item_id, m.content_url, m.media_list_type_id, m.created, m.updated, r.property_id, r.obj
FROM media_items m
LEFT JOIN resource_properties AS r ON m.media_item_id = r.media_item_id
WHERE m.is_list = 1 AND m.media_list_type_id IS NOT NULL
ORDER BY m.media_item_id`

	// One membership spans the rows of its rowid; a track listed twice has two
	// memberships. The numeric ordinal order is restored by sorting the
	// grouped members.
	queryListMembers = `SELECT l.rowid AS membership_id, l.member_media_item_id AS media_item_id, l.ordinal, m.content_url, m.media_list_type_id, m.created, m.updated, r.property_id, r.obj
FROM simple_media_lists l
LEFT JOIN media_items m ON m.media_item_id = l.member_media_item_id
LEFT JOIN resource_properties AS r ON m.media_item_id = r.media_item_id
WHERE l.media_item_id = ?
ORDER BY l.ordinal, l.rowid`

	querySchemaTables = `SELECT name FROM sqlite_master WHERE type = 'table'`
)

// verifySchema checks that db holds the Songbird library tables.
func verifySchema(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, querySchemaTables)
	if err != nil {
		return fmt.Errorf("%w: read schema: %w", types.ErrDataAccess, err)
	}
	defer rows.Close()

	found := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("%w: read schema: %w", types.ErrDataAccess, err)
		}
		found[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: read schema: %w", types.ErrDataAccess, err)
	}

	var missing []string
	for _, t := range schemaTables {
		if !found[t] {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: not a Songbird library, missing tables: %s",
			types.ErrDataAccess, strings.Join(missing, ", "))
	}
	return nil
}
