// Package export writes Songbird playlists as extended M3U files.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/songbird/pkg/types"
)

// Extension is the file extension of written playlists.
const Extension = ".m3u"

// ErrNoDir is returned by Dir when no output directory is given.
var ErrNoDir = errors.New("export directory not set")

// WriteM3U writes list as an extended M3U playlist: the #EXTM3U header, then
// per member an #EXTINF line and the member's location. Members without a
// content URL are skipped.
func WriteM3U(w io.Writer, list *types.SimpleMediaList, codes types.CodeLookup) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "#EXTM3U")
	if name := list.Name(codes); name != "" {
		fmt.Fprintf(bw, "#PLAYLIST:%s\n", name)
	}
	for _, mm := range list.Members {
		item := mm.Member
		if item == nil || item.ContentURL == nil || *item.ContentURL == "" {
			continue
		}
		fmt.Fprintf(bw, "#EXTINF:%d,%s\n", seconds(item, codes), title(item, codes))
		fmt.Fprintln(bw, Location(*item.ContentURL))
	}
	return bw.Flush()
}

// seconds returns the item's duration in whole seconds, or -1 when unknown.
// Songbird stores durations in microseconds.
func seconds(item *types.MediaItem, codes types.CodeLookup) int64 {
	us, ok := item.PropertyInt64(codes, types.PropDuration)
	if !ok || us < 0 {
		return -1
	}
	return us / 1_000_000
}

// title returns "artist - title", the bare title, or the file name.
func title(item *types.MediaItem, codes types.CodeLookup) string {
	name, _ := item.Property(codes, types.PropTrackName)
	artist, _ := item.Property(codes, types.PropArtistName)
	switch {
	case name != "" && artist != "":
		return artist + " - " + name
	case name != "":
		return name
	}
	loc := Location(*item.ContentURL)
	return path.Base(filepath.ToSlash(loc))
}

// Location converts a content URL to the entry written to the playlist:
// file URLs become local paths with percent escapes decoded, anything else
// is kept as is.
func Location(contentURL string) string {
	u, err := url.Parse(contentURL)
	if err != nil || u.Scheme != "file" {
		return contentURL
	}
	p := u.Path
	// file:///C:/Music/x.mp3 parses to /C:/Music/x.mp3.
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	if u.Host != "" && u.Host != "localhost" {
		p = "//" + u.Host + p
	}
	return filepath.FromSlash(p)
}

// FileName turns a playlist name into a safe file name with the M3U
// extension. Path separators and characters rejected by common file systems
// become underscores.
func FileName(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20, strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	s := strings.Trim(b.String(), ". ")
	if s == "" {
		s = "playlist"
	}
	return s + Extension
}

// Dir writes every list to its own file in dir, creating dir if needed, and
// returns the written paths in list order. Lists whose names map to a file
// name already written get the first free numeric suffix.
func Dir(dir string, lists []*types.SimpleMediaList, codes types.CodeLookup) ([]string, error) {
	if dir == "" {
		return nil, ErrNoDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	used := make(map[string]bool)
	written := make([]string, 0, len(lists))
	for _, list := range lists {
		name := uniqueName(FileName(list.Name(codes)), used)

		p := filepath.Join(dir, name)
		if err := writeFile(p, list, codes); err != nil {
			return written, err
		}
		written = append(written, p)
	}
	return written, nil
}

// uniqueName returns name, or "<base> (n).m3u" with the smallest n >= 2 that
// is not in used, and records the result. Names compare case-insensitively.
func uniqueName(name string, used map[string]bool) string {
	base := strings.TrimSuffix(name, Extension)
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		candidate = fmt.Sprintf("%s (%d)%s", base, n, Extension)
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func writeFile(p string, list *types.SimpleMediaList, codes types.CodeLookup) error {
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("create playlist file: %w", err)
	}
	if err := WriteM3U(f, list, codes); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", p, err)
	}
	return f.Close()
}
