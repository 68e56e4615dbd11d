// Output rendering shared by the songbird commands: JSON views and tables.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/mesh-intelligence/songbird/pkg/types"
)

// trackView is the JSON form of a track. Properties are keyed by property
// name.
type trackView struct {
	ID         int64             `json:"id"`
	URL        string            `json:"url,omitempty"`
	Title      string            `json:"title,omitempty"`
	Artist     string            `json:"artist,omitempty"`
	Album      string            `json:"album,omitempty"`
	DurationMS int64             `json:"duration_ms,omitempty"`
	Created    time.Time         `json:"created"`
	Updated    time.Time         `json:"updated"`
	Properties map[string]string `json:"properties,omitempty"`
}

type memberView struct {
	Ordinal string    `json:"ordinal,omitempty"`
	Track   trackView `json:"track"`
}

type playlistView struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Type       string       `json:"type,omitempty"`
	CustomType string       `json:"custom_type,omitempty"`
	Created    time.Time    `json:"created"`
	Updated    time.Time    `json:"updated"`
	Members    []memberView `json:"members,omitempty"`
}

func newTrackView(item *types.MediaItem, codes types.CodeLookup) trackView {
	tv := trackView{
		ID:      item.ID,
		Created: item.Created.UTC(),
		Updated: item.Updated.UTC(),
	}
	if item.ContentURL != nil {
		tv.URL = *item.ContentURL
	}
	tv.Title, _ = item.Property(codes, types.PropTrackName)
	tv.Artist, _ = item.Property(codes, types.PropArtistName)
	tv.Album, _ = item.Property(codes, types.PropAlbumName)
	if us, ok := item.PropertyInt64(codes, types.PropDuration); ok {
		tv.DurationMS = us / 1000
	}
	if len(item.Properties) > 0 {
		tv.Properties = make(map[string]string, len(item.Properties))
		for code, value := range item.Properties {
			name, ok := codes.PropertyName(code)
			if !ok {
				name = strconv.Itoa(code)
			}
			tv.Properties[name] = value
		}
	}
	return tv
}

func newPlaylistView(list *types.MediaItem, members []types.MemberMediaItem, codes types.CodeLookup) playlistView {
	pv := playlistView{
		ID:      list.ID,
		Created: list.Created.UTC(),
		Updated: list.Updated.UTC(),
	}
	pv.Name, _ = list.Property(codes, types.PropMediaListName)
	pv.Type, _ = list.ListTypeName(codes)
	pv.CustomType, _ = list.Property(codes, types.PropCustomType)
	for _, mm := range members {
		mv := memberView{Track: newTrackView(mm.Member, codes)}
		if mm.Ordinal != nil {
			mv.Ordinal = *mm.Ordinal
		}
		pv.Members = append(pv.Members, mv)
	}
	return pv
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// writeTable renders rows under headers with a rounded border.
func writeTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// trackRow is the table form of a track.
func trackRow(item *types.MediaItem, codes types.CodeLookup, now time.Time) []string {
	title, _ := item.Property(codes, types.PropTrackName)
	artist, _ := item.Property(codes, types.PropArtistName)
	duration := "-"
	if us, ok := item.PropertyInt64(codes, types.PropDuration); ok {
		duration = formatClock(us)
	}
	location := ""
	if item.ContentURL != nil {
		location = *item.ContentURL
	}
	return []string{
		strconv.FormatInt(item.ID, 10),
		title,
		artist,
		duration,
		humanize.RelTime(item.Created, now, "ago", "from now"),
		location,
	}
}

// countLine is the summary printed under a table, e.g. "1,204 tracks".
func countLine(n int, singular, plural string) string {
	noun := plural
	if n == 1 {
		noun = singular
	}
	return humanize.Comma(int64(n)) + " " + noun
}

// formatClock renders a duration given in microseconds as m:ss or h:mm:ss.
func formatClock(us int64) string {
	d := time.Duration(us) * time.Microsecond
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
