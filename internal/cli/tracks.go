package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newTracksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tracks",
		Short: "List every track in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}
			defer lib.Detach()

			codes := lib.Codes()
			out := cmd.OutOrStdout()
			now := time.Now()

			var views []trackView
			var rows [][]string
			for item, err := range lib.Tracks(cmd.Context()) {
				if err != nil {
					return classify(err)
				}
				if a.flags.jsonMode {
					views = append(views, newTrackView(item, codes))
				} else {
					rows = append(rows, trackRow(item, codes, now))
				}
			}

			if a.flags.jsonMode {
				if views == nil {
					views = []trackView{}
				}
				return writeJSON(out, views)
			}
			if err := writeTable(out, []string{"ID", "Title", "Artist", "Time", "Added", "Location"}, rows); err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, countLine(len(rows), "track", "tracks"))
			return err
		},
	}
}
