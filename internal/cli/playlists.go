package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/songbird/pkg/types"
)

// addFilterFlags registers the playlist filter flags. Unset flags fall back
// to the configuration.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("ignore-internal", true, "skip lists whose custom type is not \"simple\"")
	cmd.Flags().Bool("skip-dynamic", false, "skip smart playlists")
}

func (a *app) filters(cmd *cobra.Command) (ignoreInternal, skipDynamic bool) {
	return a.boolSetting(cmd, "ignore-internal", cfgKeyIgnoreInternal),
		a.boolSetting(cmd, "skip-dynamic", cfgKeySkipDynamic)
}

func newPlaylistsCmd(a *app) *cobra.Command {
	var withMembers bool

	cmd := &cobra.Command{
		Use:   "playlists",
		Short: "List the playlists in the library",
		Long: `List the user playlists in the library.

Lists without a name are never shown. By default lists with an internal
custom type (downloads, smart list backing lists) are skipped too.

Example:
  songbird playlists
  songbird playlists --members --skip-dynamic
  songbird playlists --ignore-internal=false --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}
			defer lib.Detach()

			ignoreInternal, skipDynamic := a.filters(cmd)
			codes := lib.Codes()
			out := cmd.OutOrStdout()

			var lists []*types.SimpleMediaList
			if withMembers {
				lists, err = lib.GetPlayLists(cmd.Context(), ignoreInternal, skipDynamic)
				if err != nil {
					return classify(err)
				}
			} else {
				headers, err := lib.GetPlaylistItems(cmd.Context(), ignoreInternal, skipDynamic)
				if err != nil {
					return classify(err)
				}
				for _, h := range headers {
					lists = append(lists, &types.SimpleMediaList{List: h})
				}
			}

			if a.flags.jsonMode {
				views := make([]playlistView, 0, len(lists))
				for _, l := range lists {
					views = append(views, newPlaylistView(l.List, l.Members, codes))
				}
				return writeJSON(out, views)
			}

			headers := []string{"ID", "Name", "Type", "Updated"}
			if withMembers {
				headers = append(headers, "Tracks")
			}
			now := time.Now()
			rows := make([][]string, 0, len(lists))
			for _, l := range lists {
				listType, _ := l.List.ListTypeName(codes)
				row := []string{
					strconv.FormatInt(l.List.ID, 10),
					l.Name(codes),
					listType,
					humanize.RelTime(l.List.Updated, now, "ago", "from now"),
				}
				if withMembers {
					row = append(row, humanize.Comma(int64(len(l.Members))))
				}
				rows = append(rows, row)
			}
			if err := writeTable(out, headers, rows); err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, countLine(len(lists), "playlist", "playlists"))
			return err
		},
	}

	cmd.Flags().BoolVar(&withMembers, "members", false, "read the tracks of every playlist")
	addFilterFlags(cmd)
	return cmd
}
