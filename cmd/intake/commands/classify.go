package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"callintake/internal/config"
	"callintake/internal/gazetteer"
	"callintake/internal/intake"
	"callintake/internal/logging"
	"callintake/internal/model"
	"callintake/internal/service"
)

func newClassifyCmd(root *rootOptions) *cobra.Command {
	var useAI, asJSON bool

	cmd := &cobra.Command{
		Use:   "classify <text>",
		Short: "Classify a comma-separated utterance",
		Example: `  intake classify "mesa az, wedding, pu at 9pm, 30 people, next friday"
  intake classify --ai --json "sarah from the johnson thing"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			today, err := root.referenceDay(cfg)
			if err != nil {
				return err
			}

			logger := logging.New(cfg.Logging, cmd.ErrOrStderr()).Level(zerolog.WarnLevel)
			svc := newCLIService(cfg, useAI, logger)
			if useAI && !svc.Fallback().Enabled() {
				logger.Warn().Msg("OPENAI_API_KEY is not set, classifying with rules only")
			}

			ctx := cmd.Context()
			text := strings.Join(args, " ")
			items, _ := svc.ClassifyAt(ctx, text, useAI, today)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(model.ClassifyResponse{Items: items})
			}
			printItems(cmd.OutOrStdout(), items)
			return nil
		},
	}
	cmd.Flags().BoolVar(&useAI, "ai", false, "send unknown fragments to the fallback classifier")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the response as JSON")
	return cmd
}

func newCLIService(cfg *config.Config, useAI bool, logger zerolog.Logger) *service.IntakeService {
	detector := intake.NewDetector(gazetteer.Default(), intake.WithLogger(logger))

	var fallback *service.FallbackClassifier
	if useAI && cfg.OpenAI.Enabled {
		ai := service.NewOpenAIClient(&cfg.OpenAI, logger)
		fallback = service.NewFallbackClassifier(ai, cfg.Pipeline, service.WithFallbackLogger(logger))
	}
	return service.NewIntakeService(detector, fallback,
		service.WithLogger(logger),
		service.WithLocation(cfg.Pipeline.Location()),
	)
}

func printItems(out io.Writer, items []model.DetectedItem) {
	kindColor := color.New(color.FgCyan, color.Bold)
	unknownColor := color.New(color.FgYellow)
	dim := color.New(color.Faint)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tVALUE\tCONF\tMETRO\tORIGINAL")
	fmt.Fprintln(w, "----\t-----\t----\t-----\t--------")
	for _, it := range items {
		kind := kindColor.Sprint(it.Kind)
		if it.IsUnknown() {
			kind = unknownColor.Sprint(it.Kind)
		}
		metro := it.NormalizedCity
		if metro == "" {
			metro = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			kind, it.Value, strconv.FormatFloat(it.Confidence, 'f', 2, 64), metro, dim.Sprint(it.Original))
	}
	_ = w.Flush()
}
