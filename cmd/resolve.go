// Package cmd implements the command-line interface for drill-bot.
package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/karrtopelka/drill-bot/bot"
	"github.com/karrtopelka/drill-bot/fetch"
	"github.com/karrtopelka/drill-bot/media"
	"github.com/karrtopelka/drill-bot/resolve"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().BoolP("fetch", "f", false, "Also download the selected media and report sizes")
	resolveCmd.SetOut(os.Stdout)
}

// resolveCmd runs the extraction pipeline for a single link and prints
// the normalized result. Meant for debugging provider behavior.
var resolveCmd = &cobra.Command{
	Use:   "resolve <link>",
	Short: "Resolve a single link through the provider cascade and print the result",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		link := args[0]
		if len(bot.FindLinks(link)) == 0 {
			cmd.PrintErrln("warning: the argument doesn't look like a supported link")
		}

		resolver, err := resolve.FromConfig()
		handleErr(err)

		set := resolver.Resolve(context.Background(), link)

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(set))

		if !set.OK() || !lo.Must(cmd.Flags().GetBool("fetch")) {
			return
		}

		plan, err := media.BuildPlan(set, len(set.Items))
		handleErr(err)

		fetcher := fetch.FromConfig()
		for _, item := range planItems(plan) {
			result, err := fetcher.Fetch(context.Background(), item.SourceURL)
			if err != nil {
				cmd.Printf("%-10s %s\n", item.Quality, err)
				continue
			}
			cmd.Printf("%-10s %d bytes (%s strategy)\n", item.Quality, len(result.Data), result.Strategy)
		}
	},
}

func planItems(plan *media.Plan) []media.Item {
	items := plan.Album
	if item, ok := plan.Video.Get(); ok {
		items = append(items, item)
	}
	if item, ok := plan.Audio.Get(); ok {
		items = append(items, item)
	}
	return items
}
