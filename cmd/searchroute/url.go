package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vango-dev/searchroute/internal/errors"
	"github.com/vango-dev/searchroute/pkg/routestate"
	"github.com/vango-dev/searchroute/pkg/routing"
	"github.com/vango-dev/searchroute/pkg/statemap"
)

// routeOutput is what url --json and parse print.
type routeOutput struct {
	URL        string                `json:"url"`
	RouteState routestate.RouteState `json:"routeState"`
	UIState    *statemap.UiState     `json:"uiState,omitempty"`
	Title      string                `json:"title"`
}

func urlCmd(flags *globalFlags) *cobra.Command {
	var (
		href   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "url [ui-state-json | -]",
		Short: "Build the URL for a widget state",
		Long: `Build the search URL for a widget state given as JSON.

The state is read from the argument, or from stdin when the argument is "-".
--href is the page the URL is built from: everything up to /search is kept.

Examples:
  searchroute url --href https://shop.example/search/ '{"query":"tv"}'
  echo '{"refinementList":{"brand":["Apple"]}}' | searchroute url --href https://shop.example/ -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("E140").
					WithDetail("The widget state is required").
					WithSuggestion(`Pass it as JSON, e.g. '{"query":"tv"}', or "-" to read stdin`)
			}
			if href == "" {
				return errors.New("E140").
					WithDetail("--href is required").
					WithSuggestion("Pass the current page URL, e.g. --href https://shop.example/search/")
			}

			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			router, err := cfg.Router()
			if err != nil {
				return err
			}

			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			var ui statemap.UiState
			if err := json.Unmarshal(data, &ui); err != nil {
				return errors.New("E103").Wrap(err).WithDetail(err.Error())
			}

			loc, err := routing.ParseLocation(href)
			if err != nil {
				return errors.New("E101").Wrap(err).WithDetail(err.Error())
			}

			rs := statemap.StateToRoute(ui)
			url := router.CreateURL(rs, loc)

			out := cmd.OutOrStdout()
			if !asJSON {
				fmt.Fprintln(out, url)
				return nil
			}
			return printJSON(out, routeOutput{
				URL:        url,
				RouteState: rs,
				Title:      router.WindowTitle(rs),
			})
		},
	}

	cmd.Flags().StringVar(&href, "href", "", "Current page URL (required)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print URL, route state and title as JSON")

	return cmd
}

func readInput(stdin io.Reader, arg string) ([]byte, error) {
	if arg != "-" {
		return []byte(arg), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, errors.New("E141").Wrap(err).WithDetail(err.Error())
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, errors.New("E141").WithDetail("stdin was empty")
	}
	return data, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
