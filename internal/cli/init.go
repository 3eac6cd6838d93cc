package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tilrettelegging/internal/paths"
	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and storage",
		Long: "Create the configuration directory with a default config.yaml, then\n" +
			"create the database in the data directory and bring its schema up to date.",
		Args: cobra.NoArgs,
		RunE: a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(a.settings.ConfigDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	// Only a data directory given on the command line is pinned in config.yaml.
	pinned := ""
	if a.flags.dataDir != "" {
		pinned = a.settings.DataDir
	}
	configPath := paths.ConfigFile(a.settings.ConfigDir)
	created, err := writeConfigIfMissing(configPath, pinned)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	var schema int
	err = a.withStore(func(store types.Store) error {
		var verr error
		schema, verr = store.SchemaVersion()
		return verr
	})
	if err != nil {
		return err
	}

	result := struct {
		ConfigFile    string `json:"config_file"`
		ConfigCreated bool   `json:"config_created"`
		DataDir       string `json:"data_dir"`
		SchemaVersion int    `json:"schema_version"`
	}{configPath, created, a.settings.DataDir, schema}

	return a.emit(cmd.OutOrStdout(), result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Initialized %s (schema version %d)\n", result.DataDir, result.SchemaVersion)
		return err
	})
}
