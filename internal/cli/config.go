// Config loading for the songbird CLI.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/songbird/internal/paths"
	"github.com/mesh-intelligence/songbird/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Environment variables SONGBIRD_<KEY> override config keys.
	envPrefix = "SONGBIRD"

	cfgKeyDBPath         = "db_path"
	cfgKeyIgnoreInternal = "ignore_internal"
	cfgKeySkipDynamic    = "skip_dynamic"
	cfgKeyQueryTimeout   = "query_timeout"
	cfgKeyLogMode        = "log_mode"
	cfgKeyLogLevel       = "log_level"
)

// configDefaults are applied beneath config.yaml and the environment.
var configDefaults = map[string]any{
	cfgKeyDBPath:         "",
	cfgKeyIgnoreInternal: true,
	cfgKeySkipDynamic:    false,
	cfgKeyQueryTimeout:   types.DefaultQueryTimeout,
	cfgKeyLogMode:        "dev",
	cfgKeyLogLevel:       "warn",
}

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# songbird CLI configuration

# Library database (optional; overridable by --db flag).
# Without it the first Songbird profile found is used.
# db_path:

# Playlist filters (overridable by --ignore-internal and --skip-dynamic).
ignore_internal: true
skip_dynamic: false

# Timeout for each database query.
query_timeout: 30s

# Logging: dev or prod, and the minimum level.
log_mode: dev
log_level: warn
`

// loadConfig reads config.yaml from configDir using Viper. It creates the
// config directory and a default config.yaml on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// libraryConfig builds the Attach config from flags, config and environment.
func (a *app) libraryConfig() (types.Config, error) {
	dbPath, err := paths.ResolveDBPath(a.flags.dbPath, a.v.GetString(cfgKeyDBPath))
	if err != nil {
		return types.Config{}, err
	}
	cfg := types.Config{
		DBPath:       dbPath,
		QueryTimeout: a.v.GetDuration(cfgKeyQueryTimeout),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// boolSetting returns the flag value when the flag was given on the command
// line, else the config value for key.
func (a *app) boolSetting(cmd *cobra.Command, flag, key string) bool {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetBool(flag)
		return v
	}
	return a.v.GetBool(key)
}

// effectiveConfig is printed by the config command.
type effectiveConfig struct {
	ConfigDir      string `json:"config_dir"`
	ConfigFile     string `json:"config_file"`
	DBPath         string `json:"db_path"`
	IgnoreInternal bool   `json:"ignore_internal"`
	SkipDynamic    bool   `json:"skip_dynamic"`
	QueryTimeout   string `json:"query_timeout"`
	LogMode        string `json:"log_mode"`
	LogLevel       string `json:"log_level"`
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := paths.ResolveDBPath(a.flags.dbPath, a.v.GetString(cfgKeyDBPath))
			if errors.Is(err, paths.ErrDBNotFound) {
				dbPath = ""
			} else if err != nil {
				return classify(err)
			}

			logMode := a.v.GetString(cfgKeyLogMode)
			if a.flags.logMode != "" {
				logMode = a.flags.logMode
			}
			ec := effectiveConfig{
				ConfigDir:      a.configDir,
				ConfigFile:     a.v.ConfigFileUsed(),
				DBPath:         dbPath,
				IgnoreInternal: a.v.GetBool(cfgKeyIgnoreInternal),
				SkipDynamic:    a.v.GetBool(cfgKeySkipDynamic),
				QueryTimeout:   a.v.GetDuration(cfgKeyQueryTimeout).String(),
				LogMode:        logMode,
				LogLevel:       a.v.GetString(cfgKeyLogLevel),
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(ec)
			}

			if ec.DBPath == "" {
				ec.DBPath = "(not found)"
			}
			lines := map[string]string{
				"config_dir":         ec.ConfigDir,
				"config_file":        ec.ConfigFile,
				cfgKeyDBPath:         ec.DBPath,
				cfgKeyIgnoreInternal: fmt.Sprint(ec.IgnoreInternal),
				cfgKeySkipDynamic:    fmt.Sprint(ec.SkipDynamic),
				cfgKeyQueryTimeout:   ec.QueryTimeout,
				cfgKeyLogMode:        ec.LogMode,
				cfgKeyLogLevel:       ec.LogLevel,
			}
			keys := make([]string, 0, len(lines))
			for k := range lines {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "%s: %s\n", k, lines[k])
			}
			return nil
		},
	}
}
