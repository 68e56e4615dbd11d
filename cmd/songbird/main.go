// Command songbird reads tracks and playlists from a Songbird library.
package main

import "github.com/mesh-intelligence/songbird/internal/cli"

func main() {
	cli.Execute()
}
