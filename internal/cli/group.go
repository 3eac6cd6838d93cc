package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

func (a *app) newGroupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "group",
		Aliases: []string{"faggruppe"},
		Short:   "Search subject groups and list their members",
	}
	cmd.AddCommand(a.newGroupListCmd(), a.newGroupMembersCmd())
	return cmd
}

func (a *app) newGroupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [prefix]",
		Short: "List up to ten subject groups whose name starts with prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			return a.withStore(func(store types.Store) error {
				groups, err := store.SearchGroups(prefix)
				if err != nil {
					return err
				}
				return a.emit(cmd.OutOrStdout(), groups, func(w io.Writer) error {
					for _, g := range groups {
						fmt.Fprintln(w, g.Name)
					}
					return nil
				})
			})
		},
	}
}

// groupReport is the JSON shape of "group members".
type groupReport struct {
	Group   string              `json:"faggruppe_navn"`
	Details *types.GroupDetails `json:"detaljer"`
	Members []types.GroupMember `json:"elever"`
}

func (a *app) newGroupMembersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "members <group>",
		Short: "List every student in a subject group with their accommodations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group := args[0]
			return a.withStore(func(store types.Store) error {
				details, err := store.GetGroupDetails(group)
				if err != nil {
					return err
				}
				members, err := store.ListGroupMembers(group)
				if err != nil {
					return err
				}
				report := groupReport{Group: group, Details: details, Members: members}
				return a.emit(cmd.OutOrStdout(), report, func(w io.Writer) error {
					if details != nil {
						fmt.Fprintf(w, "%s: %s, %s\n\n", group, details.Subject, details.Teacher)
					}
					rows := make([][]string, len(members))
					for i, m := range members {
						rows[i] = []string{
							strconv.FormatInt(m.StudentID, 10), m.Name, m.Class, m.Room,
							mark(m.ExtraTime), mark(m.ScreenedSeat), mark(m.ReadAloud), m.Comment,
						}
					}
					return table(w, []string{"ID", "NAME", "CLASS", "ROOM", "TIME", "SEAT", "READ", "COMMENT"}, rows)
				})
			})
		},
	}
}
