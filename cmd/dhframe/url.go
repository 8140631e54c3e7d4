package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/dhframe/internal/errors"
	"github.com/vango-dev/dhframe/pkg/widget"
)

func urlCmd() *cobra.Command {
	var (
		base   string
		kind   string
		name   string
		params []string
		shared bool
		nonce  bool
	)

	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print the iframe URL of a widget",
		Long: `Print the iframe URL under which a widget backend serves an object.

Without --name a fresh identifier is generated, as Display does for
objects that are not named.

Examples:
  dhframe url --name prices
  dhframe url --kind chart --base https://proxy.example.com/dh/
  dhframe url --widget --name my_table --param envoyPrefix=/abc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			extra, err := parseParams(params)
			if err != nil {
				return err
			}
			if nonce {
				extra = append([]widget.Param{{Key: "nonce", Value: widget.NewNonce()}}, extra...)
			}

			id := widget.DeriveIdentifier(name)
			var u string
			if shared {
				u = widget.BuildWidgetURL(base, id, extra...)
			} else {
				k, err := widget.ParseKind(kind)
				if err != nil {
					return err
				}
				if u, err = widget.BuildTargetURL(base, k, id, extra...); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "http://localhost:8899/", "Backend base URL")
	cmd.Flags().StringVarP(&kind, "kind", "k", "table", "Widget kind (table or chart)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Object identifier (default: generated)")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Extra query parameter as key=value (repeatable)")
	cmd.Flags().BoolVar(&shared, "widget", false, "Use the shared widget path instead of the per-kind path")
	cmd.Flags().BoolVar(&nonce, "nonce", true, "Add a random nonce parameter")

	return cmd
}

// parseParams parses key=value pairs, keeping their order.
func parseParams(raw []string) ([]widget.Param, error) {
	params := make([]widget.Param, 0, len(raw))
	for _, p := range raw {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, errors.Newf(errors.CategoryCLI, "invalid --param %q, want key=value", p)
		}
		params = append(params, widget.Param{Key: key, Value: value})
	}
	return params, nil
}
