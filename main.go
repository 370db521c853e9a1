// Package main is the entry point for the drill-bot application.
package main

import (
	"github.com/karrtopelka/drill-bot/cmd"
	"github.com/karrtopelka/drill-bot/config"
	"github.com/karrtopelka/drill-bot/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
