package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/tilrettelegging/internal/logging"
	"github.com/mesh-intelligence/tilrettelegging/internal/paths"
	"github.com/mesh-intelligence/tilrettelegging/internal/server"
	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	dotEnvFileName = ".env"
	envPrefix      = "TILRETTELEGGING"

	cfgKeyBackend        = "backend"
	cfgKeyDataDir        = "data_dir"
	cfgKeyServerAddr     = "server.addr"
	cfgKeyLogLevel       = "log.level"
	cfgKeyLogPretty      = "log.pretty"
	cfgKeyBackupSchedule = "backup.schedule"
)

// envKeys are the config keys that TILRETTELEGGING_* variables override.
// data_dir is absent: its env variable ranks below config.yaml and is
// handled by paths.ResolveDataDir.
var envKeys = []string{
	cfgKeyBackend,
	cfgKeyServerAddr,
	cfgKeyLogLevel,
	cfgKeyLogPretty,
	cfgKeyBackupSchedule,
}

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend string        `yaml:"backend"`
	DataDir string        `yaml:"data_dir,omitempty"`
	Server  serverSection `yaml:"server"`
	Log     logSection    `yaml:"log"`
	Backup  backupSection `yaml:"backup"`
}

type serverSection struct {
	Addr string `yaml:"addr"`
}

type logSection struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type backupSection struct {
	// Schedule is a cron expression; empty disables scheduled backups.
	Schedule string `yaml:"schedule"`
}

func defaultConfigFile() configFile {
	return configFile{
		Backend: types.BackendSQLite,
		Server:  serverSection{Addr: server.DefaultAddr},
		Log:     logSection{Level: "info", Pretty: true},
	}
}

// settings are the effective values for one invocation after flags,
// environment and config.yaml have been merged.
type settings struct {
	ConfigDir      string
	DataDir        string
	Backend        string
	ServerAddr     string
	LogLevel       string
	LogPretty      bool
	BackupSchedule string
}

func (s settings) storeConfig() types.Config {
	return types.Config{Backend: s.Backend, DataDir: s.DataDir}
}

// setup resolves directories, loads configuration and builds the logger
// before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.started = true
	if cmd.Name() == "version" && cmd.Parent() == cmd.Root() {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	level := v.GetString(cfgKeyLogLevel)
	if a.flags.logLevel != "" {
		level = a.flags.logLevel
	}
	a.settings = settings{
		ConfigDir:      configDir,
		DataDir:        dataDir,
		Backend:        v.GetString(cfgKeyBackend),
		ServerAddr:     v.GetString(cfgKeyServerAddr),
		LogLevel:       level,
		LogPretty:      v.GetBool(cfgKeyLogPretty),
		BackupSchedule: strings.TrimSpace(v.GetString(cfgKeyBackupSchedule)),
	}
	a.log = logging.New(logging.Config{
		Level:  a.settings.LogLevel,
		Pretty: a.settings.LogPretty,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}

// loadConfig reads config.yaml from configDir using Viper, after loading an
// optional .env file from the same directory. A missing config.yaml or .env
// is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := loadDotEnv(configDir); err != nil {
		return nil, err
	}

	v := viper.New()
	def := defaultConfigFile()
	v.SetDefault(cfgKeyBackend, def.Backend)
	v.SetDefault(cfgKeyServerAddr, def.Server.Addr)
	v.SetDefault(cfgKeyLogLevel, def.Log.Level)
	v.SetDefault(cfgKeyLogPretty, def.Log.Pretty)
	v.SetDefault(cfgKeyBackupSchedule, def.Backup.Schedule)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	for _, key := range envKeys {
		if err := v.BindEnv(key, envName(key)); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// envName maps a config key such as server.addr onto TILRETTELEGGING_SERVER_ADDR.
func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// loadDotEnv loads configDir/.env into the process environment. Variables
// already set in the environment win.
func loadDotEnv(configDir string) error {
	path := filepath.Join(configDir, dotEnvFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. An existing file is left alone.
func writeConfigIfMissing(path, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config: %w", err)
	}

	cfg := defaultConfigFile()
	cfg.DataDir = dataDir
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# tilrettelegging configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
