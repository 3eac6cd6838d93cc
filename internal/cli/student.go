package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

func (a *app) newStudentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "student",
		Aliases: []string{"elev"},
		Short:   "Search, show and add students",
	}
	cmd.AddCommand(a.newStudentListCmd(), a.newStudentShowCmd(), a.newStudentAddCmd(), a.newStudentDeleteCmd())
	return cmd
}

func (a *app) newStudentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [prefix]",
		Short: "List up to ten students whose name starts with prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			return a.withStore(func(store types.Store) error {
				students, err := store.SearchStudents(prefix)
				if err != nil {
					return err
				}
				return a.emit(cmd.OutOrStdout(), students, func(w io.Writer) error {
					rows := make([][]string, len(students))
					for i, s := range students {
						rows[i] = []string{strconv.FormatInt(s.ID, 10), s.Name, s.Class}
					}
					return table(w, []string{"ID", "NAME", "CLASS"}, rows)
				})
			})
		},
	}
}

func (a *app) newStudentShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a student and all of its accommodation records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withStore(func(store types.Store) error {
				detail, err := store.GetStudent(id)
				if err != nil {
					return err
				}
				return a.emit(cmd.OutOrStdout(), detail, func(w io.Writer) error {
					fmt.Fprintf(w, "%s (%s), id %d\n\n", detail.Name, detail.Class, detail.ID)
					return accommodationTable(w, detail.Accommodations)
				})
			})
		},
	}
}

func accommodationTable(w io.Writer, records []types.Accommodation) error {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			strconv.FormatInt(r.ID, 10), r.Group, r.Subject, r.Teacher,
			mark(r.ExtraTime), mark(r.ScreenedSeat), mark(r.ReadAloud), r.Comment,
		}
	}
	return table(w, []string{"ID", "GROUP", "SUBJECT", "TEACHER", "TIME", "SEAT", "READ", "COMMENT"}, rows)
}

func (a *app) newStudentAddCmd() *cobra.Command {
	var class string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				st, err := store.AddStudent(args[0], class)
				if err != nil {
					return err
				}
				return a.emit(cmd.OutOrStdout(), st, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Added student %d: %s (%s)\n", st.ID, st.Name, st.Class)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&class, "class", "", "class label, e.g. 1STA")
	return cmd
}

func (a *app) newStudentDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a student and all of its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withStore(func(store types.Store) error {
				n, err := store.DeleteStudent(id)
				if err != nil {
					return err
				}
				if n == 0 {
					return fmt.Errorf("%w: id %d", types.ErrStudentNotFound, id)
				}
				return a.emit(cmd.OutOrStdout(), map[string]int64{"changes": n}, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Deleted student %d\n", id)
					return err
				})
			})
		},
	}
}
