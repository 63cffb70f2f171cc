package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"callintake/internal/config"
	"callintake/internal/dateparse"
	"callintake/internal/gazetteer"
	"callintake/internal/intake"
)

func newResolveDateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "resolve-date <expression>",
		Short:   "Resolve a date expression to YYYY-MM-DD",
		Example: `  intake resolve-date --today 2026-10-24 "next friday"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			today, err := root.referenceDay(cfg)
			if err != nil {
				return err
			}

			expr := strings.Join(args, " ")
			iso, ok := dateparse.NormalizeDate(expr, today)
			if !ok {
				return fmt.Errorf("cannot resolve %q as a date", expr)
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString(iso))
			return nil
		},
	}
}

func newNormalizeCityCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "normalize-city <city>",
		Short:   "Map a suburb or city to its metro area",
		Example: `  intake normalize-city "glendale az"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			city := strings.Join(args, " ")
			metro, ok := intake.NewCityNormalizer(gazetteer.Default()).Metro(city)
			if !ok {
				return fmt.Errorf("no metro area known for %q", city)
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString(metro))
			return nil
		},
	}
}
