package cli

import (
	"fmt"

	"github.com/mesh-intelligence/songbird/pkg/songbird"
	"github.com/mesh-intelligence/songbird/pkg/types"
)

// openLibrary resolves the library database and attaches it. The caller must
// defer lib.Detach().
func (a *app) openLibrary() (types.Library, error) {
	cfg, err := a.libraryConfig()
	if err != nil {
		return nil, classify(err)
	}

	lib, err := songbird.Open(cfg, songbird.NewCodeCache(), a.log.SugaredLogger.Desugar())
	if err != nil {
		return nil, classify(fmt.Errorf("open library: %w", err))
	}
	return lib, nil
}
