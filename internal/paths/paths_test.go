package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withPlatform points the platform lookups at temp directories for one test.
func withPlatform(t *testing.T, configHome, home, appData string) {
	t.Helper()
	saved := platformDir
	t.Cleanup(func() { platformDir = saved })
	platformDir.configHome = func() string { return configHome }
	platformDir.homeDir = func() string { return home }
	platformDir.appData = func() string { return appData }
}

// touchDB creates an empty library file at root/rel and returns its path.
func touchDB(t *testing.T, root string, rel ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{root}, rel...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	return path
}

func TestDefaultConfigDir(t *testing.T) {
	withPlatform(t, "/tmp/xdg-config", "/home/u", "")
	assert.Equal(t, filepath.Join("/tmp/xdg-config", "songbird"), DefaultConfigDir())
}

func TestResolveConfigDir(t *testing.T) {
	withPlatform(t, "/tmp/xdg-config", "/home/u", "")

	tests := []struct {
		name   string
		flag   string
		envVal string
		want   string
	}{
		{
			name:   "flag wins over env",
			flag:   "/flag/config",
			envVal: "/env/config",
			want:   "/flag/config",
		},
		{
			name:   "env wins over default",
			envVal: "/env/config",
			want:   "/env/config",
		},
		{
			name: "platform default when all empty",
			want: filepath.Join("/tmp/xdg-config", "songbird"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigDir, tt.envVal)
			got, err := ResolveConfigDir(tt.flag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveConfigDir_AbsolutePath(t *testing.T) {
	t.Run("relative flag becomes absolute", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")
		got, err := ResolveConfigDir("relative/path")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})

	t.Run("relative env becomes absolute", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "relative/env")
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})
}

func TestResolveDBPath_Precedence(t *testing.T) {
	home := t.TempDir()
	withPlatform(t, t.TempDir(), home, "")
	discovered := touchDB(t, home, ".songbird2", "abcd1234.default", "db", LibraryFileName)

	tests := []struct {
		name          string
		flag          string
		configYAMLVal string
		envVal        string
		want          string
	}{
		{"flag wins", "/flag/lib.db", "/config/lib.db", "/env/lib.db", "/flag/lib.db"},
		{"config wins over env", "", "/config/lib.db", "/env/lib.db", "/config/lib.db"},
		{"env wins over discovery", "", "", "/env/lib.db", "/env/lib.db"},
		{"discovered profile", "", "", "", discovered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDB, tt.envVal)
			got, err := ResolveDBPath(tt.flag, tt.configYAMLVal)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiscoverDB(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		withPlatform(t, t.TempDir(), t.TempDir(), t.TempDir())
		_, err := DiscoverDB()
		assert.ErrorIs(t, err, ErrDBNotFound)
	})

	t.Run("first profile in lexical order", func(t *testing.T) {
		home := t.TempDir()
		withPlatform(t, t.TempDir(), home, "")
		touchDB(t, home, ".songbird2", "zzz.second", "db", LibraryFileName)
		want := touchDB(t, home, ".songbird2", "aaa.first", "db", LibraryFileName)

		got, err := DiscoverDB()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("macOS profile", func(t *testing.T) {
		home := t.TempDir()
		withPlatform(t, t.TempDir(), home, "")
		want := touchDB(t, home, "Library", "Application Support", "Songbird2", "Profiles", "p.default", "db", LibraryFileName)

		got, err := DiscoverDB()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("windows profile", func(t *testing.T) {
		appData := t.TempDir()
		withPlatform(t, t.TempDir(), t.TempDir(), appData)
		want := touchDB(t, appData, "Songbird2", "Profiles", "p.default", "db", LibraryFileName)

		got, err := DiscoverDB()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("directory with the library name is skipped", func(t *testing.T) {
		home := t.TempDir()
		withPlatform(t, t.TempDir(), home, "")
		require.NoError(t, os.MkdirAll(filepath.Join(home, ".songbird2", "p", "db", LibraryFileName), 0o755))

		_, err := DiscoverDB()
		assert.ErrorIs(t, err, ErrDBNotFound)
	})
}
