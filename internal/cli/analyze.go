package cli

import (
	"context"
	"fmt"

	"smart-notes-be/internal/dto"

	"github.com/spf13/cobra"
)

var (
	summaryMax int
	summaryMin int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|-]",
	Short: "Enrich text: summary, keywords, sentiment and statistics",
	Long: `Analyze runs the enrichment pipeline on a file or stdin and prints the
record, including which tier produced each field.

Example:
  notectl analyze meeting.txt
  cat draft.md | notectl analyze -o yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		ctx := context.Background()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		res, err := a.container.AIService.Analyze(ctx, &dto.AnalyzeRequest{Text: string(text)})
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, res)
	},
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file|-]",
	Short: "Summarize text with the configured model or the extractive fallback",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		if summaryMin > 0 && summaryMax > 0 && summaryMin > summaryMax {
			return fmt.Errorf("--min (%d) exceeds --max (%d)", summaryMin, summaryMax)
		}
		ctx := context.Background()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		res, err := a.container.AIService.Summarize(ctx, &dto.SummarizeRequest{
			Text:      string(text),
			MaxLength: summaryMax,
			MinLength: summaryMin,
		})
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, res)
	},
}

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Show which strategy serves each model capability",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(context.Background())
		if err != nil {
			return err
		}
		defer a.close()
		return render(cmd.OutOrStdout(), outputFormat, a.container.AIService.Capabilities())
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd, summarizeCmd, capabilitiesCmd)

	summarizeCmd.Flags().IntVar(&summaryMax, "max", 0, "maximum summary length in tokens (0 = adaptive)")
	summarizeCmd.Flags().IntVar(&summaryMin, "min", 0, "minimum summary length in tokens (0 = adaptive)")
}
