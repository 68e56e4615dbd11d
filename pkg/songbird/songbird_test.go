package songbird

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mesh-intelligence/songbird/pkg/types"
)

func TestNewLibrary_Detached(t *testing.T) {
	lib := NewLibrary(NewCodeCache(), zaptest.NewLogger(t))
	require.NotNil(t, lib)

	_, err := lib.GetAllTracks(t.Context())
	assert.ErrorIs(t, err, types.ErrLibraryDetached)
	assert.NoError(t, lib.Detach())
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(types.Config{}, nil, nil)
	assert.ErrorIs(t, err, types.ErrDBPathEmpty)

	cache := NewCodeCache()
	_, err = Open(types.Config{DBPath: filepath.Join(t.TempDir(), "missing.db")}, cache, nil)
	assert.ErrorIs(t, err, types.ErrDataAccess)
	assert.False(t, cache.IsInitialized())
}
