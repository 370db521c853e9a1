// Package cmd implements the command-line interface for drill-bot.
package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/karrtopelka/drill-bot/bot"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

// runCmd starts the bot and blocks until interrupted.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bot and process chat updates until interrupted",
	Run: func(cmd *cobra.Command, args []string) {
		b, err := bot.New()
		handleErr(err)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err = b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			handleErr(err)
		}
	},
}
