package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vango-dev/searchroute/internal/errors"
	"github.com/vango-dev/searchroute/pkg/routing"
	"github.com/vango-dev/searchroute/pkg/statemap"
)

func parseCmd(flags *globalFlags) *cobra.Command {
	var routeOnly bool

	cmd := &cobra.Command{
		Use:   "parse <url>",
		Short: "Read the route and widget state out of a URL",
		Long: `Read the route state and widget state encoded in a search URL.

The output also carries the canonical URL and the page title.

Examples:
  searchroute parse 'https://shop.example/search/Cameras/?query=zoom&brands=Canon'
  searchroute parse --route-only https://shop.example/search/TV/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("E140").
					WithDetail("The URL to parse is required").
					WithSuggestion("searchroute parse https://shop.example/search/")
			}

			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			router, err := cfg.Router()
			if err != nil {
				return err
			}

			loc, err := routing.ParseLocation(args[0])
			if err != nil {
				return errors.New("E101").Wrap(err).WithDetail(err.Error())
			}
			if !router.Anchor().Matches(loc.Pathname) {
				return errors.New("E100").
					WithDetail(fmt.Sprintf("%s is not below /%s", loc.Pathname, router.Anchor().Name()))
			}

			rs := router.ParseURL(loc)
			if routeOnly {
				return printJSON(cmd.OutOrStdout(), rs)
			}

			ui := statemap.RouteToState(rs)
			return printJSON(cmd.OutOrStdout(), routeOutput{
				URL:        router.CreateURL(rs, loc),
				RouteState: rs,
				UIState:    &ui,
				Title:      router.WindowTitle(rs),
			})
		},
	}

	cmd.Flags().BoolVar(&routeOnly, "route-only", false, "Print only the route state")

	return cmd
}
