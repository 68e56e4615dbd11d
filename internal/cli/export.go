package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/songbird/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every playlist as an M3U file",
		Long: `Write every playlist selected by the filters to its own extended M3U
file in the given directory. File URLs are written as local paths.

Example:
  songbird export --dir ~/Music/playlists`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				return classify(export.ErrNoDir)
			}

			lib, err := a.openLibrary()
			if err != nil {
				return err
			}
			defer lib.Detach()

			ignoreInternal, skipDynamic := a.filters(cmd)
			lists, err := lib.GetPlayLists(cmd.Context(), ignoreInternal, skipDynamic)
			if err != nil {
				return classify(err)
			}

			written, err := export.Dir(dir, lists, lib.Codes())
			if err != nil {
				return classify(err)
			}
			a.log.Info("exported playlists", "dir", dir, "count", len(written))

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				if written == nil {
					written = []string{}
				}
				return writeJSON(out, map[string]any{"dir": dir, "files": written})
			}
			for _, p := range written {
				fmt.Fprintln(out, p)
			}
			_, err = fmt.Fprintf(out, "exported %s\n", countLine(len(written), "playlist", "playlists"))
			return err
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "output directory (required)")
	addFilterFlags(cmd)
	return cmd
}
