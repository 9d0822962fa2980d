package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"smart-notes-be/internal/config"
	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/pkg/events"
	pktNats "smart-notes-be/pkg/nats"

	"github.com/spf13/cobra"
)

var (
	watchType    string
	watchDurable string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print note events from the NATS bus as they arrive",
	Long: `Watch follows the NOTES stream and prints one document per event until
interrupted. NATS_URL must be set.

Example:
  notectl watch
  notectl watch --type NOTE_ENRICHED --durable audit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.Load()
		if cfg.App.NatsURL == "" {
			return fmt.Errorf("NATS_URL is not set")
		}

		var log logger.ILogger = logger.NewNopLogger()
		if verbose {
			log = logger.NewZapLogger(cfg.App.LogFilePath, false)
		}
		sub, err := pktNats.NewSubscriber(cfg.App.NatsURL, log)
		if err != nil {
			return err
		}
		defer sub.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		return sub.Subscribe(ctx, pktNats.Subject(watchType), watchDurable, func(_ context.Context, e events.Event) error {
			return render(out, outputFormat, eventView(e))
		})
	},
}

type eventDocument struct {
	Type       string                 `json:"type"`
	OccurredAt string                 `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

func eventView(e events.Event) eventDocument {
	return eventDocument{
		Type:       e.EventType(),
		OccurredAt: e.Timestamp().Format("2006-01-02T15:04:05Z07:00"),
		Data:       e.Payload(),
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchType, "type", ">", "event type to follow (> for all)")
	watchCmd.Flags().StringVar(&watchDurable, "durable", "", "durable consumer name; empty starts at new events")
}
