package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tilrettelegging/internal/sqlite"
)

func (a *app) newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the stored and latest schema versions",
		Args:  cobra.NoArgs,
		RunE:  a.runDBVersion,
	}, &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE:  a.runDBMigrate,
	})
	return cmd
}

type schemaStatus struct {
	Stored int `json:"stored"`
	Latest int `json:"latest"`
}

func (a *app) runDBVersion(cmd *cobra.Command, args []string) error {
	v, err := sqlite.StoredVersion(a.settings.storeConfig())
	if err != nil {
		return err
	}
	status := schemaStatus{Stored: v, Latest: sqlite.LatestSchemaVersion}
	return a.emit(cmd.OutOrStdout(), status, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "schema version %d (latest %d)\n", status.Stored, status.Latest)
		return err
	})
}

func (a *app) runDBMigrate(cmd *cobra.Command, args []string) error {
	from, to, err := sqlite.MigrateStore(a.settings.storeConfig(), a.log)
	if err != nil {
		return err
	}
	result := struct {
		From int `json:"from"`
		To   int `json:"to"`
	}{from, to}
	return a.emit(cmd.OutOrStdout(), result, func(w io.Writer) error {
		if from == to {
			_, err := fmt.Fprintf(w, "schema already at version %d\n", to)
			return err
		}
		_, err := fmt.Fprintf(w, "migrated schema from version %d to %d\n", from, to)
		return err
	})
}
