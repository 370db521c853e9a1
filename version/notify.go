// Package version provides application version tracking and update discovery.
package version

import (
	"fmt"

	"github.com/karrtopelka/drill-bot/constant"
	"github.com/karrtopelka/drill-bot/key"
	"github.com/spf13/viper"
)

// Notify prints an alert when a more recent stable release is available.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	version, err := Latest()
	if err != nil {
		return
	}

	comp, err := Compare(version, constant.Version)
	if err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
New version is available: %s (you're on %s)
https://github.com/karrtopelka/drill-bot/releases/tag/v%s

`, version, constant.Version, version)
}
