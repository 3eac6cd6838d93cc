package cli

import (
	"fmt"
	"io"

	"github.com/maloquacious/semver"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tilrettelegging/internal/sqlite"
)

const modulePath = "github.com/mesh-intelligence/tilrettelegging"

var version = semver.Version{Minor: 1, PreRelease: "alpha", Build: semver.Commit()}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tilrettelegging version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := struct {
				Version       string `json:"version"`
				Module        string `json:"module"`
				SchemaVersion int    `json:"schema_version"`
			}{version.String(), modulePath, sqlite.LatestSchemaVersion}

			return a.emit(cmd.OutOrStdout(), info, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "tilrettelegging %s\nmodule: %s\nschema: %d\n",
					info.Version, info.Module, info.SchemaVersion)
				return err
			})
		},
	}
}
