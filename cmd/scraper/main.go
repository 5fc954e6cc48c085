package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/guesspro/guesspro-go/internal/dependencies/clock"
	"github.com/guesspro/guesspro-go/internal/dependencies/random"
	"github.com/guesspro/guesspro-go/internal/scraper"
)

func main() {
	var targetsPath string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "guesspro-scraper",
		Short: "Harvest player biographical data into the roster format",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

			targets, err := scraper.LoadTargets(targetsPath)
			if err != nil {
				return err
			}

			s := scraper.New(clock.New(), random.New(), logger)
			records := s.Run(cmd.Context(), targets)
			if len(records) == 0 {
				return fmt.Errorf("no players harvested")
			}

			if err := scraper.Save(outputPath, records); err != nil {
				return err
			}
			logger.Info("roster written",
				slog.String("path", outputPath),
				slog.Int("players", len(records)))
			return nil
		},
	}

	cmd.Flags().StringVar(&targetsPath, "targets", "data/targets.json", "path to the target list file")
	cmd.Flags().StringVar(&outputPath, "output", "data/players.json", "path to write the roster file")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
