// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"strings"
	"text/template"

	"github.com/karrtopelka/drill-bot/constant"
	"github.com/karrtopelka/drill-bot/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a human-readable string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.DrillBot + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
	})
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.BotToken, "", "Telegram bot API token.\nPrefer storing it with \"drill-bot auth\" (system keyring) or the DRILLBOT_BOT_TOKEN environment variable")
	register(key.BotWebhookURL, "", "Public HTTPS URL for webhook delivery.\nLeave empty to use long polling")
	register(key.BotWebhookAddr, ":8443", "Local listen address for the webhook server")
	register(key.BotErrorNoticeTTL, 6, "Seconds before a user-visible error notice deletes itself")
	register(key.ResolveProviders, []string{"tikwm", "tiklydown", "tikdown", "scrape"}, "Extraction backends in priority order.\nFirst provider returning usable media wins.\nType \"drill-bot providers\" to list available backends")
	register(key.ResolveAttemptTimeout, 20, "Per-provider resolution timeout in seconds")
	register(key.FetchMaxAttempts, 3, "Download attempts per media URL before giving up")
	register(key.FetchBaseDelay, 2, "Base delay in seconds between download attempts (grows linearly)")
	register(key.FetchProxyTemplate, "https://api.allorigins.win/raw?url={URL}", "Generic read-through proxy template.\n{URL} is replaced with the percent-encoded target")
	register(key.FetchTikTokProxies, []string{
		"https://proxy.tik.fail/?url={URL}",
		"https://tikcdn.io/proxy?target={URL}",
	}, "Specialized proxy templates tried in order for TikTok CDN hosts")
	register(key.FetchTikTokCDNHosts, []string{"tiktokcdn.com", "tiktokcdn-us.com", "byteoversea.com", "muscdn.com"}, "Host suffixes that qualify for the specialized proxy tier")
	register(key.SelectorAlbumCap, 10, "Maximum images per outgoing album (Telegram media-group limit)")
	register(key.LLMBaseURL, "http://localhost:11434", "Base URL of the OpenAI-compatible endpoint used for polls and translation")
	register(key.LLMAPIKey, "", "API key for the language-model endpoint, if it requires one")
	register(key.LLMModel, "llama3.2", "Model identifier passed to the language-model endpoint")
	register(key.TranslateTarget, "en", "Target language code for /translate")
	register(key.LogsWrite, true, "Write logs to the log directory")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"value": func(k string) any { return viper.Get(k) },
}).Parse(`{{ .Description }}
Key:     {{ .Key }}
Env:     {{ .Env }}
Value:   {{ value .Key }}
Default: {{ .Value }}`))
