package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/songbird/internal/codes"
	"github.com/mesh-intelligence/songbird/internal/logger"
	"github.com/mesh-intelligence/songbird/internal/testdb"
	"github.com/mesh-intelligence/songbird/pkg/types"
)

const (
	codeListName    = testdb.CodeListName
	codeCustomType  = testdb.CodeCustomType
	listTypeDynamic = testdb.CodeDynamicList
)

func createFixtureDB(t *testing.T) string {
	t.Helper()
	return testdb.Create(t)
}

// attachFixture returns a backend attached to a fresh fixture database.
func attachFixture(t *testing.T) *Backend {
	t.Helper()

	b := NewBackend(codes.NewCache(), logger.Nop())
	require.NoError(t, b.Attach(types.Config{DBPath: createFixtureDB(t)}))
	t.Cleanup(func() { b.Detach() })
	return b
}
