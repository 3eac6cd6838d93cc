package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tilrettelegging/internal/scheduler"
	"github.com/mesh-intelligence/tilrettelegging/internal/sqlite"
	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

// errNotConfirmed is returned by destructive commands run without --yes.
var errNotConfirmed = fmt.Errorf("%w: refusing to continue without --yes", types.ErrInvalidData)

func (a *app) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import students and accommodations from a spreadsheet",
		Long: `Import rows from the first sheet of an xlsx workbook. The first row is a
header; the columns are name, class, subject, teacher and subject group.
Rows missing any of name, class or subject group are skipped. The import
runs in one transaction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				res, err := store.ImportWorkbook(args[0])
				if err != nil {
					return err
				}
				return a.emit(cmd.OutOrStdout(), res, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Imported %d rows (%d new students, %d skipped)\n",
						res.Processed, res.StudentsCreated, res.Skipped)
					return err
				})
			})
		},
	}
}

func (a *app) newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <group>",
		Short: "Export a subject group's member list as a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group := args[0]
			if out == "" {
				out = sqlite.ExportFileName(group)
			}
			return a.withStore(func(store types.Store) error {
				if err := exportToFile(store, group, out); err != nil {
					return err
				}
				return a.emit(cmd.OutOrStdout(), map[string]string{"file": out}, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Wrote %s\n", out)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: <group>_elever.xlsx)")
	return cmd
}

// exportToFile writes the workbook to path, removing a partial file on failure.
func exportToFile(store types.Store, group, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	return store.ExportGroup(group, f)
}

func (a *app) newWipeCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete every student and accommodation record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errNotConfirmed
			}
			return a.withStore(func(store types.Store) error {
				if err := store.WipeAll(); err != nil {
					return err
				}
				return a.emit(cmd.OutOrStdout(), map[string]any{"success": true}, func(w io.Writer) error {
					_, err := fmt.Fprintln(w, "All student data deleted")
					return err
				})
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting all data")
	return cmd
}

func (a *app) newBackupCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write every table as JSONL",
		Long:  "Write every table as JSONL into --dir, or into a new timestamped directory\nunder <data-dir>/backups.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				target := dir
				if target == "" {
					var err error
					if target, err = scheduler.RunBackup(store, a.settings.DataDir, time.Now()); err != nil {
						return err
					}
				} else if err := store.Backup(target); err != nil {
					return err
				}
				return a.emit(cmd.OutOrStdout(), map[string]string{"dir": target}, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Backup written to %s\n", target)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "backup directory (default: <data-dir>/backups/<timestamp>)")
	return cmd
}

func (a *app) newRestoreCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "restore <dir>",
		Short: "Replace all data with a JSONL backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errNotConfirmed
			}
			dir := args[0]
			if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
				if err == nil || errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("%w: %s is not a backup directory", types.ErrInvalidData, dir)
				}
				return err
			}
			return a.withStore(func(store types.Store) error {
				if err := store.Restore(dir); err != nil {
					return err
				}
				return a.emit(cmd.OutOrStdout(), map[string]string{"restored": dir}, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Restored from %s\n", dir)
					return err
				})
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm replacing all data")
	return cmd
}
