package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tilrettelegging/internal/router"
	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

func (a *app) newRequestCmd() *cobra.Command {
	var (
		body   string
		params map[string]string
	)
	cmd := &cobra.Command{
		Use:   "request <method> <endpoint>",
		Short: "Send one request through the router and print the JSON result",
		Long: `Send one request through the same router the HTTP server uses and print the
uniform JSON result. The endpoint may carry a query string; --param values
override query values with the same key. --body - reads the body from stdin.

Example:
  tilrettelegging request GET /students --param search=Ol
  tilrettelegging request POST /api/elever --body '{"navn":"Ola","klasse":"1A"}'
  tilrettelegging request GET '/group-members/B/REA3058'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readBody(cmd.InOrStdin(), body)
			if err != nil {
				return err
			}
			req := router.Request{
				Method:   strings.ToUpper(args[0]),
				Endpoint: args[1],
				Params:   params,
				Body:     raw,
			}

			var resp router.Response
			err = a.withStore(func(store types.Store) error {
				resp = router.New(store, router.WithLogger(a.log)).Dispatch(req)
				return nil
			})
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), resp); err != nil {
				return err
			}
			return resp.Err
		},
	}
	cmd.Flags().StringVar(&body, "body", "", "JSON request body, or - to read it from stdin")
	cmd.Flags().StringToStringVar(&params, "param", nil, "request parameter key=value (repeatable)")
	return cmd
}

// readBody returns the --body value as raw JSON. Empty means no body.
func readBody(stdin io.Reader, body string) (json.RawMessage, error) {
	if body == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read body from stdin: %w", err)
		}
		body = string(data)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, nil
	}
	if !json.Valid([]byte(body)) {
		return nil, fmt.Errorf("%w: --body is not valid JSON", types.ErrInvalidData)
	}
	return json.RawMessage(body), nil
}
