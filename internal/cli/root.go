// Package cli implements the tilrettelegging command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string
}

// app carries one invocation's flags and loaded settings. Each root command
// gets its own app so tests can run commands side by side.
type app struct {
	flags    rootFlags
	settings settings
	log      zerolog.Logger

	// started is set once argument validation has passed; errors before
	// that point are usage errors.
	started bool
}

// NewRootCmd creates the top-level "tilrettelegging" command with global
// flags and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return (&app{log: zerolog.Nop()}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tilrettelegging",
		Short: "Exam and classroom accommodation records for students",
		Long: "tilrettelegging keeps students, their subject groups and the accommodations\n" +
			"granted in each group (extra time, screened seat, read-aloud tasks).",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.tilrettelegging-db)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)")

	root.AddCommand(
		a.newVersionCmd(),
		a.newInitCmd(),
		a.newServeCmd(),
		a.newRequestCmd(),
		a.newStudentCmd(),
		a.newGroupCmd(),
		a.newImportCmd(),
		a.newExportCmd(),
		a.newWipeCmd(),
		a.newBackupCmd(),
		a.newRestoreCmd(),
		a.newDBCmd(),
	)
	return root
}

// Execute runs the CLI on the process arguments and exits with its code.
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes the CLI with args and returns the exit code: 0 on success,
// 2 for storage and system faults, 1 for everything else.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{log: zerolog.Nop()}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "error:", err)
	return a.exitCode(err)
}

func (a *app) exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case !a.started:
		return exitUserError
	case types.Kind(err) == types.KindStorage:
		return exitSysError
	default:
		return exitUserError
	}
}
