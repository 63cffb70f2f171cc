// Package commands implements the intake command line: classify utterances,
// resolve date expressions and normalize city names without the HTTP server.
package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"callintake/internal/config"
	"callintake/internal/dateparse"
)

type rootOptions struct {
	noColor bool
	today   string
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "intake",
		Short:         "Classify call-center shorthand into structured booking fields",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&opts.today, "today", "", "reference date (YYYY-MM-DD), defaults to today in INTAKE_TIMEZONE")

	rootCmd.AddCommand(
		newClassifyCmd(opts),
		newResolveDateCmd(opts),
		newNormalizeCityCmd(),
	)
	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// referenceDay returns the --today flag as a date in the configured zone
func (o *rootOptions) referenceDay(cfg *config.Config) (time.Time, error) {
	loc := cfg.Pipeline.Location()
	if o.today == "" {
		return time.Now().In(loc), nil
	}
	day, err := time.ParseInLocation(dateparse.ISOLayout, o.today, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --today %q: %w", o.today, err)
	}
	return day, nil
}
