package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"smart-notes-be/internal/bootstrap"
	"smart-notes-be/internal/config"
	"smart-notes-be/internal/model"
	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/pkg/database"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "notectl",
	Short: "notectl - run the smart notes pipeline from the terminal",
	Long: `notectl drives the same enrichment, media and re-enrichment code the
REST server uses, against the configured database and models.

Configuration is read from the environment and an optional .env file.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "json", "output format (json, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
}

// app is the wiring a command needs. close releases everything.
type app struct {
	cfg       *config.Config
	container *bootstrap.Container
	close     func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg := config.Load()

	var log logger.ILogger = logger.NewNopLogger()
	if verbose {
		log = logger.NewZapLogger(cfg.App.LogFilePath, false)
	}

	db, _, err := database.Open(cfg.Database.Connection, cfg.Database.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.Migrate(db, model.All()...); err != nil {
		database.Close(db)
		return nil, err
	}

	container := bootstrap.NewContainer(ctx, db, cfg, log)
	return &app{
		cfg:       cfg,
		container: container,
		close: func() {
			container.Close()
			database.Close(db)
		},
	}, nil
}

// render writes v in the selected output format.
func render(w io.Writer, format string, v interface{}) error {
	switch strings.ToLower(format) {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		// Round-trip through JSON so yaml uses the json field names.
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic interface{}
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// readInput returns the file contents, or stdin for "-" or no argument.
func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(args[0])
}
