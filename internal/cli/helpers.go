package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	pkgsqlite "github.com/mesh-intelligence/tilrettelegging/pkg/sqlite"
	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

// openStore attaches a store on the resolved data directory. The caller
// must Detach it.
func (a *app) openStore() (types.Store, error) {
	store := pkgsqlite.NewBackend(a.log)
	if err := store.Attach(a.settings.storeConfig()); err != nil {
		return nil, fmt.Errorf("open store in %s: %w", a.settings.DataDir, err)
	}
	return store, nil
}

// withStore runs fn against an attached store and detaches afterwards.
func (a *app) withStore(fn func(store types.Store) error) (err error) {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer func() {
		if derr := store.Detach(); derr != nil && err == nil {
			err = fmt.Errorf("close store: %w", derr)
		}
	}()
	return fn(store)
}

// emit prints v as indented JSON in --json mode, otherwise calls text.
func (a *app) emit(w io.Writer, v any, text func(w io.Writer) error) error {
	if a.flags.jsonMode {
		return printJSON(w, v)
	}
	return text(w)
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// table writes tab-separated rows as aligned columns.
func table(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	writeRow(tw, header)
	for _, r := range rows {
		writeRow(tw, r)
	}
	return tw.Flush()
}

func writeRow(w io.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)
}

// parseID parses a positive row id given on the command line.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidID, s)
	}
	return id, nil
}

func mark(b types.Bit) string {
	if b {
		return "x"
	}
	return "-"
}
