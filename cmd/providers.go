// Package cmd implements the command-line interface for drill-bot.
package cmd

import (
	"os"

	"github.com/karrtopelka/drill-bot/key"
	"github.com/karrtopelka/drill-bot/provider"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(providersCmd)
	providersCmd.Flags().StringP("filter", "f", "", "Fuzzy-filter providers by name")
	providersCmd.Flags().BoolP("enabled", "e", false, "Display only providers in the configured cascade")
	providersCmd.SetOut(os.Stdout)
}

// providersCmd displays the registered extraction backends.
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Display the registered extraction backends and the active cascade order",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			filter      = lo.Must(cmd.Flags().GetString("filter"))
			enabledOnly = lo.Must(cmd.Flags().GetBool("enabled"))
			enabled     = viper.GetStringSlice(key.ResolveProviders)
		)

		names := lo.Map(provider.All(), func(a provider.Adapter, _ int) string {
			return a.Name()
		})

		if enabledOnly {
			names = lo.Filter(names, func(name string, _ int) bool {
				return lo.Contains(enabled, name)
			})
		}

		if filter != "" {
			names = fuzzy.FindFold(filter, names)
		}

		for _, name := range names {
			if idx := lo.IndexOf(enabled, name); idx >= 0 {
				cmd.Printf("%s (cascade position %d)\n", name, idx+1)
			} else {
				cmd.Printf("%s (disabled)\n", name)
			}
		}
	},
}
